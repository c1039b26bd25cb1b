package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script extensions need a unix shell")
	}
	dir := t.TempDir()
	script := "#!/bin/sh\n" +
		"echo \"" + EnvDB + "=$" + EnvDB + "\"\n" +
		"echo \"" + EnvCurrency + "=$" + EnvCurrency + "\"\n" +
		"echo \"args=$*\"\n" +
		"exit 3\n"
	if err := os.WriteFile(filepath.Join(dir, ExtensionPrefix+"hello"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	out := captureOutput(t)
	setFlag(t, "db", filepath.Join(dir, "random.db"))
	setFlag(t, "currency", "XYZ")

	found, code := RunExtension("hello", []string{"a", "b"})
	if !found {
		t.Fatal("RunExtension() did not find fin-hello")
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	for _, want := range []string{
		EnvDB + "=" + filepath.Join(dir, "random.db"),
		EnvCurrency + "=XYZ",
		"args=a b",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestRunExtension_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if found, _ := RunExtension("nothing-like-this", nil); found {
		t.Error("RunExtension() found a missing extension")
	}
}

// captureOutput redirects the command output to a buffer for the test duration.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &buf, &buf
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })
	return &buf
}

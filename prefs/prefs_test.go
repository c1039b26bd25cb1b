package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Missing(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if f.Prefs != Defaults() {
		t.Errorf("Load() = %+v, want defaults", f.Prefs)
	}
	if f.HasName() || !f.FirstRun || f.DarkMode {
		t.Errorf("defaults = %+v", f.Prefs)
	}
}

func TestFile_SetUserName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fin", "prefs.yaml")
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetUserName("   "); err != ErrBlankName {
		t.Errorf("SetUserName(blank) = %v, want ErrBlankName", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("a blank name was saved")
	}
	if err := f.SetUserName(" Ada "); err != nil {
		t.Fatal(err)
	}
	if err := f.SetDarkMode(true); err != nil {
		t.Fatal(err)
	}

	g, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Prefs{UserName: "Ada", DarkMode: true, FirstRun: false}
	if g.Prefs != want {
		t.Errorf("reloaded = %+v, want %+v", g.Prefs, want)
	}
}

func TestFile_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	f, _ := Load(path)
	if err := f.SetUserName("Bob"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"user_name: Bob", "is_dark_mode: false", "is_first_run: false"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("file does not contain %q:\n%s", key, data)
		}
	}
}

func TestFile_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	f, _ := Load(path)
	if err := f.SetUserName("Ada"); err != nil {
		t.Fatal(err)
	}
	if err := f.Clear(); err != nil {
		t.Fatal(err)
	}
	if f.Prefs != Defaults() {
		t.Errorf("after Clear() = %+v, want defaults", f.Prefs)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists after Clear()")
	}
	// clearing twice is fine.
	if err := f.Clear(); err != nil {
		t.Errorf("second Clear() = %v", err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	os.WriteFile(path, []byte("user_name: [unterminated"), 0o600)
	if _, err := Load(path); err == nil {
		t.Error("Load() of a malformed file succeeded")
	}
}

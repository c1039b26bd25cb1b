package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/finance/logging"
	"go.uber.org/zap"
)

// ExtensionPrefix is the prefix of external fin-<subcommand> binaries.
const ExtensionPrefix = "fin-"

// RunExtension attempts to find and execute an external fin-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The global flags are passed down as FIN_* environment variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := ExtensionPrefix + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		logging.L().Debug("extension not found", zap.String("extension", name), zap.Error(err))
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	cmd.Env = append(os.Environ(),
		EnvDB+"="+*dbPath,
		EnvDriver+"="+*driver,
		EnvPrefs+"="+*prefsPath,
		EnvCurrency+"="+*currency,
	)
	if *raw {
		cmd.Env = append(cmd.Env, EnvRaw+"="+strconv.FormatBool(*raw))
	}

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

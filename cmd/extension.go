package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	EnvNAVFile   = "CAMS_NAV_FILE"
	EnvExtractor = "CAMS_EXTRACTOR"
	EnvVerbose   = "CAMS_VERBOSE"
)

// RunExtension attempts to find and execute an external cams-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "cams-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		logrus.WithError(err).WithField("extension", name).Debug("extension not found in PATH")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr

	// global flags are passed as environment variables
	cmd.Env = append(os.Environ(),
		EnvNAVFile+"="+*navFile,
		EnvExtractor+"="+*extractorCommand,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

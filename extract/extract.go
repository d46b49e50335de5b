// Package extract reads CAMS statements through an external extractor program.
//
// The extractor is invoked as
//
//	<command> [args...] <statement.pdf>
//
// with the statement password in the CAMS_PDF_PASSWORD environment variable. It
// must print the transactions on stdout, either as CSV with a header line or as JSON,
// using the column names of camsfolio (pan, folio_num, fund_name, isin, date, txn,
// amount, units, nav, balance_units). On failure it exits with a non zero status and
// explains why on stderr.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/etnz/camsfolio"
	"github.com/sirupsen/logrus"
)

const (
	// EnvPassword carries the statement password to the extractor.
	EnvPassword = "CAMS_PDF_PASSWORD"
	// DefaultCommand is the extractor looked up in PATH when none is configured.
	DefaultCommand = "cams-extract"
)

// Format of the extractor output.
type Format int

const (
	Auto Format = iota // JSON if the output starts with '[' or '{', CSV otherwise
	CSV
	JSON
)

// ParseFormat parses "auto", "csv" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return Auto, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	default:
		return Auto, fmt.Errorf("unknown extractor format: %q", s)
	}
}

// Command is a camsfolio.Extractor running an external program.
type Command struct {
	Name     string   // program name or path, defaults to DefaultCommand
	Args     []string // arguments placed before the statement path
	Format   Format
	Selector string // jsonpath of the rows in a JSON output, defaults to "$"
}

// New parses a command line like "cams-extract --json" into a Command.
func New(commandLine string) Command {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return Command{Name: DefaultCommand}
	}
	return Command{Name: fields[0], Args: fields[1:]}
}

// Extract runs the extractor on the statement at path.
func (c Command) Extract(ctx context.Context, path, password string) (camsfolio.RawTable, error) {
	name := c.Name
	if name == "" {
		name = DefaultCommand
	}
	lp, err := exec.LookPath(name)
	if err != nil {
		return camsfolio.RawTable{}, fmt.Errorf("extractor %q not found: %w", name, err)
	}

	args := append(append([]string{}, c.Args...), path)
	cmd := exec.CommandContext(ctx, lp, args...)
	cmd.Env = append(os.Environ(), EnvPassword+"="+password)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logrus.WithField("extractor", lp).Debug("running extractor")
	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return camsfolio.RawTable{}, fmt.Errorf("%s (%v)", msg, err)
		}
		return camsfolio.RawTable{}, fmt.Errorf("extractor failed: %w", err)
	}

	rows, err := c.decode(stdout.Bytes())
	if err != nil {
		return camsfolio.RawTable{}, fmt.Errorf("cannot decode extractor output: %w", err)
	}
	return camsfolio.RawTable{Source: path, Rows: rows}, nil
}

func (c Command) decode(out []byte) ([]camsfolio.RawRow, error) {
	format := c.Format
	if format == Auto {
		format = CSV
		if trimmed := bytes.TrimSpace(out); len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
			format = JSON
		}
	}
	if format == JSON {
		return DecodeJSON(bytes.NewReader(out), c.Selector)
	}
	return DecodeCSV(bytes.NewReader(out))
}

// lastLine returns the last non blank line of s.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

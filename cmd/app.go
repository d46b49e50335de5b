// Package cmd implements the cams command line.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/camsfolio"
	"github.com/etnz/camsfolio/amfi"
	"github.com/etnz/camsfolio/extract"
	"github.com/etnz/camsfolio/logger"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var navFile = flag.String("nav-file", "NAVAll.txt", "Path to the AMFI NAV list (NAVAll.txt)")
var extractorCommand = flag.String("extractor", extract.DefaultCommand, "Command line of the statement extractor")
var Verbose = flag.Bool("v", false, "Log every step")

// Commands are the cams subcommands.
var Commands = []subcommands.Command{
	&summaryCmd{},
	&transactionsCmd{},
	&exportCmd{},
	&serveCmd{},
	&topicCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	for _, cmd := range Commands {
		c.Register(cmd, "statements")
	}
}

// InitLogging configures logging once the global flags are parsed.
func InitLogging() {
	level := "warn"
	if *Verbose {
		level = "debug"
	}
	logger.Init(level, "text")
}

var stdout io.Writer = os.Stdout

// newExtractor returns the extractor of the -extractor flag.
var newExtractor = func() camsfolio.Extractor { return extract.New(*extractorCommand) }

// navSource returns the NAV list of the -nav-file flag.
func navSource() camsfolio.NAVSource { return amfi.File(*navFile) }

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }
func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// password returns the password of the i-th file. A single password applies to every file.
func password(passwords []string, i int) string {
	switch {
	case len(passwords) == 1:
		return passwords[0]
	case i < len(passwords):
		return passwords[i]
	}
	return ""
}

// ingest extracts the statement files and combines them.
func ingest(ctx context.Context, files, passwords []string) (*camsfolio.Table, *camsfolio.Batch, []camsfolio.Gap, error) {
	var statements []camsfolio.Statement
	var unreadable []*camsfolio.FileError
	for i, path := range files {
		s, err := camsfolio.StatementFile(path, password(passwords, i))
		if err != nil {
			unreadable = append(unreadable, &camsfolio.FileError{File: path, Err: fmt.Errorf("%w: %v", camsfolio.ErrIngestion, err)})
			continue
		}
		statements = append(statements, s)
	}
	in := &camsfolio.Ingester{Extractor: newExtractor()}
	batch := in.Ingest(ctx, statements...)
	batch.Errors = append(unreadable, batch.Errors...)
	table, gaps, err := batch.Normalize()
	return table, batch, gaps, err
}

// selectOwners narrows s to the given PANs. An empty list keeps every owner.
func selectOwners(s *camsfolio.FilterState, pans []string) error {
	if len(pans) == 0 {
		return nil
	}
	for _, o := range s.AllOwners() {
		s.SetOwner(o, false)
	}
	for _, pan := range pans {
		found := false
		for _, o := range s.AllOwners() {
			if strings.EqualFold(o, strings.TrimSpace(pan)) {
				s.SetOwner(o, true)
				found = true
			}
		}
		if !found {
			return fmt.Errorf("unknown PAN %q", pan)
		}
	}
	return nil
}

// selectFamilies narrows s to the funds of the given families.
func selectFamilies(s *camsfolio.FilterState, families []string) error {
	if len(families) == 0 {
		return nil
	}
	for _, g := range s.FundGroups() {
		s.SetGroup(g.Name, false)
	}
	for _, family := range families {
		if !s.SetGroup(strings.TrimSpace(family), true) {
			return fmt.Errorf("unknown fund family %q", family)
		}
	}
	return nil
}

// printMarkdown prints md on stdout, rendered for the terminal unless raw.
func printMarkdown(md string, raw bool) {
	if !raw {
		out, err := renderTerminal(md)
		if err == nil {
			fmt.Fprint(stdout, out)
			return
		}
		logrus.WithError(err).Debug("cannot render markdown")
	}
	fmt.Fprint(stdout, md)
}

func renderTerminal(md string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

package camsfolio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultMaxSize is the largest statement file accepted, in bytes.
const DefaultMaxSize = 50 << 20

// sniffLen is the number of bytes http.DetectContentType considers.
const sniffLen = 512

// Extractor reads the transactions of a statement file.
type Extractor interface {
	Extract(ctx context.Context, path, password string) (RawTable, error)
}

// Statement is one uploaded statement file.
type Statement struct {
	Name     string // original file name
	Size     int64
	Password string
	Open     func() (io.ReadCloser, error)
}

// StatementFile describes a statement stored on disk.
func StatementFile(path, password string) (Statement, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Statement{}, err
	}
	return Statement{
		Name:     filepath.Base(path),
		Size:     info.Size(),
		Password: password,
		Open:     func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// Batch is the outcome of ingesting a set of statements. Every statement ends up
// either in Tables or in Errors, exactly once.
type Batch struct {
	Tables []RawTable
	Errors []*FileError
}

// Err joins every per-file error, or returns nil.
func (b *Batch) Err() error {
	errs := make([]error, len(b.Errors))
	for i, e := range b.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Normalize combines the extracted tables. It returns ErrNoData when no row survived.
func (b *Batch) Normalize() (*Table, []Gap, error) {
	t, gaps := Normalize(b.Tables...)
	if t.Len() == 0 {
		return t, gaps, ErrNoData
	}
	return t, gaps, nil
}

// Ingester validates statements, stages them in temporary files and extracts them.
type Ingester struct {
	Extractor Extractor
	MaxSize   int64  // defaults to DefaultMaxSize
	TempDir   string // defaults to os.TempDir()
}

// Ingest processes statements one after the other. A failing statement is recorded
// and does not stop the batch.
func (in *Ingester) Ingest(ctx context.Context, statements ...Statement) *Batch {
	b := &Batch{}
	for _, s := range statements {
		log := logrus.WithField("file", s.Name)
		table, err := in.ingest(ctx, s)
		if err != nil {
			log.WithError(err).Warn("statement rejected")
			b.Errors = append(b.Errors, &FileError{File: s.Name, Err: err})
			continue
		}
		log.WithField("rows", len(table.Rows)).Info("statement extracted")
		b.Tables = append(b.Tables, table)
	}
	return b
}

// SizeLimit returns the largest statement accepted, in bytes.
func (in *Ingester) SizeLimit() int64 {
	if in.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return in.MaxSize
}

func (in *Ingester) ingest(ctx context.Context, s Statement) (RawTable, error) {
	if err := in.Validate(s); err != nil {
		return RawTable{}, err
	}
	if s.Open == nil {
		return RawTable{}, fmt.Errorf("%w: no content", ErrValidation)
	}
	r, err := s.Open()
	if err != nil {
		return RawTable{}, fmt.Errorf("%w: %v", ErrIngestion, err)
	}
	defer r.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return RawTable{}, fmt.Errorf("%w: %v", ErrIngestion, err)
	}
	head = head[:n]
	if ct := DetectContentType(head); ct != "application/pdf" {
		return RawTable{}, fmt.Errorf("%w: content is %s, not a PDF", ErrValidation, ct)
	}
	if strings.TrimSpace(s.Password) == "" {
		return RawTable{}, fmt.Errorf("%w: missing password", ErrIngestion)
	}
	if err := ctx.Err(); err != nil {
		return RawTable{}, fmt.Errorf("%w: %v", ErrIngestion, err)
	}

	path, err := in.stage(io.MultiReader(bytes.NewReader(head), r))
	if err != nil {
		return RawTable{}, err
	}
	defer os.Remove(path)

	if in.Extractor == nil {
		return RawTable{}, fmt.Errorf("%w: no extractor configured", ErrIngestion)
	}
	table, err := in.Extractor.Extract(ctx, path, s.Password)
	if err != nil {
		return RawTable{}, fmt.Errorf("%w: %v", ErrIngestion, err)
	}
	table.Source = s.Name
	return table, nil
}

// Validate checks what is known of s without reading its content: its name and declared size.
func (in *Ingester) Validate(s Statement) error {
	if !strings.EqualFold(filepath.Ext(s.Name), ".pdf") {
		return fmt.Errorf("%w: %q is not a .pdf file", ErrValidation, s.Name)
	}
	if s.Size > in.SizeLimit() {
		return fmt.Errorf("%w: %d bytes exceeds the %d bytes limit", ErrValidation, s.Size, in.SizeLimit())
	}
	return nil
}

// stage copies r into a temporary file and returns its path. The copy is bounded
// by the size limit since the declared size may lie.
func (in *Ingester) stage(r io.Reader) (string, error) {
	f, err := os.CreateTemp(in.TempDir, "statement-*.pdf")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIngestion, err)
	}
	n, err := io.Copy(f, io.LimitReader(r, in.SizeLimit()+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > in.SizeLimit() {
		err = fmt.Errorf("%w: content exceeds the %d bytes limit", ErrValidation, in.SizeLimit())
	} else if err != nil {
		err = fmt.Errorf("%w: %v", ErrIngestion, err)
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// DetectContentType returns the media type of content from its first bytes, without parameters.
func DetectContentType(head []byte) string {
	ct := http.DetectContentType(head)
	ct, _, _ = strings.Cut(ct, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

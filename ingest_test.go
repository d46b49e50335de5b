package camsfolio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

var pdfContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")

// memStatement is a helper for test to create an in-memory upload.
func memStatement(name, password string, content []byte) Statement {
	return Statement{
		Name:     name,
		Size:     int64(len(content)),
		Password: password,
		Open:     func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(content)), nil },
	}
}

// fakeExtractor records the staged files and returns canned tables.
type fakeExtractor struct {
	calls  []string
	staged [][]byte
	fail   map[string]error // by password
}

func (f *fakeExtractor) Extract(ctx context.Context, path, password string) (RawTable, error) {
	f.calls = append(f.calls, path)
	data, err := os.ReadFile(path)
	if err != nil {
		return RawTable{}, err
	}
	f.staged = append(f.staged, data)
	if err := f.fail[password]; err != nil {
		return RawTable{}, err
	}
	return RawTable{Source: path, Rows: []RawRow{buy("P1", "Fund A", "1-Jan-2023", "100", "10", "10")}}, nil
}

func emptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestIngest_Validation(t *testing.T) {
	tests := []struct {
		name      string
		statement Statement
		want      error
	}{
		{"extension", memStatement("notes.txt", "pw", []byte("hello")), ErrValidation},
		{"renamed text", memStatement("fake.pdf", "pw", []byte("just some text")), ErrValidation},
		{"oversize", Statement{Name: "big.PDF", Size: 101, Password: "pw"}, ErrValidation},
		{"missing password", memStatement("ok.pdf", " ", pdfContent), ErrIngestion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			ext := &fakeExtractor{}
			in := &Ingester{Extractor: ext, MaxSize: 100, TempDir: dir}
			b := in.Ingest(context.Background(), tt.statement)
			if len(b.Errors) != 1 || len(b.Tables) != 0 {
				t.Fatalf("Ingest() = %d tables, %v, want one error", len(b.Tables), b.Errors)
			}
			if !errors.Is(b.Errors[0], tt.want) {
				t.Errorf("Ingest() error = %v, want %v", b.Errors[0], tt.want)
			}
			if b.Errors[0].File != tt.statement.Name {
				t.Errorf("FileError.File = %q, want %q", b.Errors[0].File, tt.statement.Name)
			}
			if len(ext.calls) != 0 {
				t.Errorf("extractor called %d times, want 0", len(ext.calls))
			}
			emptyDir(t, dir)
		})
	}
}

func TestIngest_ValidationIsNotIngestion(t *testing.T) {
	in := &Ingester{Extractor: &fakeExtractor{}, TempDir: t.TempDir()}
	b := in.Ingest(context.Background(), memStatement("x.csv", "pw", []byte("a,b")))
	err := b.Errors[0]
	if errors.Is(err, ErrIngestion) {
		t.Errorf("validation failure %v also classified as ingestion", err)
	}
	if err.Kind() != "validation" {
		t.Errorf("Kind() = %q, want validation", err.Kind())
	}
}

func TestIngester_Validate(t *testing.T) {
	in := &Ingester{MaxSize: 10}
	if in.SizeLimit() != 10 || (&Ingester{}).SizeLimit() != DefaultMaxSize {
		t.Errorf("SizeLimit() = %d, %d, want 10, %d", in.SizeLimit(), (&Ingester{}).SizeLimit(), DefaultMaxSize)
	}
	tests := []struct {
		s     Statement
		valid bool
	}{
		{Statement{Name: "a.PDF"}, true},
		{Statement{Name: "a.pdf", Size: 10}, true},
		{Statement{Name: "a.pdf", Size: 11}, false},
		{Statement{Name: "a.txt"}, false},
		{Statement{Name: ""}, false},
	}
	for _, tt := range tests {
		err := in.Validate(tt.s)
		if (err == nil) != tt.valid || (err != nil && !errors.Is(err, ErrValidation)) {
			t.Errorf("Validate(%q, %d) = %v, want valid %v", tt.s.Name, tt.s.Size, err, tt.valid)
		}
	}
}

func TestIngest_Isolation(t *testing.T) {
	dir := t.TempDir()
	ext := &fakeExtractor{fail: map[string]error{"wrong": errors.New("incorrect password")}}
	in := &Ingester{Extractor: ext, TempDir: dir}

	uploads := []Statement{
		memStatement("one.pdf", "right", pdfContent),
		memStatement("two.pdf", "wrong", pdfContent),
		memStatement("three.txt", "right", pdfContent),
		memStatement("four.pdf", "right", pdfContent),
	}
	b := in.Ingest(context.Background(), uploads...)

	if got := len(b.Tables) + len(b.Errors); got != len(uploads) {
		t.Errorf("tables + errors = %d, want %d", got, len(uploads))
	}
	if len(b.Tables) != 2 {
		t.Errorf("Ingest() = %d tables, want 2", len(b.Tables))
	}
	if b.Tables[0].Source != "one.pdf" || b.Tables[1].Source != "four.pdf" {
		t.Errorf("table sources = %q, %q, want one.pdf, four.pdf", b.Tables[0].Source, b.Tables[1].Source)
	}
	if len(b.Errors) != 2 {
		t.Fatalf("Ingest() errors = %v, want 2", b.Errors)
	}
	if !errors.Is(b.Errors[0], ErrIngestion) || !strings.Contains(b.Errors[0].Error(), "incorrect password") {
		t.Errorf("errors[0] = %v, want ingestion error with the extractor message", b.Errors[0])
	}
	if !errors.Is(b.Errors[1], ErrValidation) {
		t.Errorf("errors[1] = %v, want validation error", b.Errors[1])
	}
	if err := b.Err(); err == nil || !strings.Contains(err.Error(), "two.pdf") {
		t.Errorf("Err() = %v, want joined errors", err)
	}
	for _, data := range ext.staged {
		if !bytes.Equal(data, pdfContent) {
			t.Errorf("staged content = %q, want the uploaded content", data)
		}
	}
	emptyDir(t, dir)

	table, _, err := b.Normalize()
	if err != nil || table.Len() != 2 {
		t.Errorf("Normalize() = %d rows, %v, want 2 rows", table.Len(), err)
	}
}

func TestIngest_LyingSize(t *testing.T) {
	dir := t.TempDir()
	ext := &fakeExtractor{}
	in := &Ingester{Extractor: ext, MaxSize: 20, TempDir: dir}
	s := memStatement("a.pdf", "pw", pdfContent)
	s.Size = 10
	b := in.Ingest(context.Background(), s)
	if len(b.Errors) != 1 || !errors.Is(b.Errors[0], ErrValidation) {
		t.Errorf("Ingest() errors = %v, want one validation error", b.Errors)
	}
	if len(ext.calls) != 0 {
		t.Errorf("extractor called on oversize content")
	}
	emptyDir(t, dir)
}

func TestBatch_NoData(t *testing.T) {
	b := &Batch{Tables: []RawTable{{Source: "empty.pdf"}}}
	if _, _, err := b.Normalize(); !errors.Is(err, ErrNoData) {
		t.Errorf("Normalize() error = %v, want ErrNoData", err)
	}
	if err := b.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestStatementFile(t *testing.T) {
	path := t.TempDir() + "/stmt.pdf"
	if err := os.WriteFile(path, pdfContent, 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := StatementFile(path, "pw")
	if err != nil {
		t.Fatalf("StatementFile() error = %v", err)
	}
	if s.Name != "stmt.pdf" || s.Size != int64(len(pdfContent)) {
		t.Errorf("StatementFile() = %+v", s)
	}
	ext := &fakeExtractor{}
	b := (&Ingester{Extractor: ext, TempDir: t.TempDir()}).Ingest(context.Background(), s)
	if len(b.Tables) != 1 {
		t.Errorf("Ingest(file) = %v", b.Errors)
	}
}

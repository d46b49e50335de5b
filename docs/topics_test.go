package docs

import (
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// readmeTopics returns the topics listed as "name: description" items in readme.md.
func readmeTopics(t *testing.T) []string {
	t.Helper()
	source, err := os.ReadFile("readme.md")
	if err != nil {
		t.Fatalf("failed to read readme.md: %v", err)
	}
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var topics []string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindListItem {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			b.Write(c.Lines().Value(source))
		}
		if name, _, ok := strings.Cut(b.String(), ":"); ok {
			topics = append(topics, strings.TrimSpace(name))
		}
		return ast.WalkSkipChildren, nil
	})
	return topics
}

func TestTopics(t *testing.T) {
	listed := readmeTopics(t)
	if len(listed) == 0 {
		t.Fatal("readme.md lists no topic")
	}
	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("GetTopic(%q) error = %v", topic, err)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error = %v", err)
	}
	slices.Sort(listed)
	if !slices.Equal(all, listed) {
		t.Errorf("GetAllTopics() = %v, readme.md lists %v", all, listed)
	}
}

func TestGetTopics(t *testing.T) {
	got, err := GetTopics("readme", "*")
	if err != nil {
		t.Fatalf("GetTopics() error = %v", err)
	}
	for _, title := range []string{"# cams", "# Statements", "# Valuation", "# Filters", "# Serve"} {
		if !strings.Contains(got, title) {
			t.Errorf("GetTopics() does not contain %q", title)
		}
	}

	if _, err := GetTopics("nope"); err == nil {
		t.Error("GetTopics(\"nope\") error = nil, want an error")
	}
}

package styling

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/recera/vstyle/pkg/dom/htmldoc"
)

func TestHydrate_AdoptsServerRenderedNodes(t *testing.T) {
	server := New(htmldoc.New())
	server.Insert(".card", Props("padding", "1rem", "color", "red !important"), "")
	server.Insert(".card", Props("padding", "2rem"), "(min-width: 40em)")

	page := server.Document().(*htmldoc.Document).String()
	doc, err := htmldoc.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	client := New(doc)
	n, err := client.Hydrate()
	if err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}
	if n != 2 {
		t.Fatalf("Hydrate() = %d, want 2", n)
	}

	entry, ok := client.Lookup(".card", "")
	if !ok {
		t.Fatal("entry without media missing")
	}
	want := Props("padding", "1rem", "color", "red !important")
	if diff := cmp.Diff(want, entry.Properties); diff != "" {
		t.Errorf("properties mismatch (-want +got):\n%s", diff)
	}

	// The adopted node is reused rather than duplicated.
	client.Insert(".card", Props("margin", "0"), "(min-width: 40em)")
	nodes, _ := doc.QuerySelectorAll("style")
	if len(nodes) != 2 {
		t.Errorf("style nodes = %d, want 2", len(nodes))
	}
	entry, _ = client.Lookup(".card", "(min-width: 40em)")
	if entry.CSS != ".card{padding : 2rem;margin : 0;}" {
		t.Errorf("CSS = %q", entry.CSS)
	}
}

func TestHydrate_SkipsOwnedNodes(t *testing.T) {
	reg := New(htmldoc.New())
	reg.Insert(".x", Props("a", "1"), "")

	n, err := reg.Hydrate()
	if err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Hydrate() = %d, want 0", n)
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestHydrate_DropsDuplicates(t *testing.T) {
	page := `<html><head>` +
		`<style data-vstyle-selector=".x">.x{a : 1;}</style>` +
		`<style data-vstyle-selector=".x">.x{a : 2;}</style>` +
		`</head><body></body></html>`
	doc, err := htmldoc.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	reg := New(doc)
	n, err := reg.Hydrate()
	if err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Hydrate() = %d, want 1", n)
	}
	nodes, _ := doc.QuerySelectorAll("style")
	if len(nodes) != 1 {
		t.Errorf("style nodes = %d, want 1", len(nodes))
	}
	entry, _ := reg.Lookup(".x", "")
	if entry.CSS != ".x{a : 1;}" {
		t.Errorf("CSS = %q", entry.CSS)
	}
}

func TestParseRuleText(t *testing.T) {
	props, err := parseRuleText(".x{display : block;margin : 0 auto;}")
	if err != nil {
		t.Fatalf("parseRuleText() error = %v", err)
	}
	if diff := cmp.Diff(Props("display", "block", "margin", "0 auto"), props); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseRuleText(""); err == nil {
		t.Error("expected an error for an empty node")
	}
}

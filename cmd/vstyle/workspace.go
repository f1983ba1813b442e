package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/recera/vstyle/internal/config"
	"github.com/recera/vstyle/pkg/dom/htmldoc"
	"github.com/recera/vstyle/pkg/styling"
)

// workspace is a page and its registry with a manifest applied
type workspace struct {
	manifest *config.Manifest
	doc      *htmldoc.Document
	reg      *styling.StyleRegistry
}

// openWorkspace loads the manifest at path and applies it to a blank page,
// or to the page at base after adopting its rules
func openWorkspace(path, base string, logger *slog.Logger) (*workspace, error) {
	m, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	doc := htmldoc.New()
	if base != "" {
		f, err := os.Open(base)
		if err != nil {
			return nil, fmt.Errorf("failed to open base page: %w", err)
		}
		doc, err = htmldoc.Parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse base page: %w", err)
		}
	}

	reg := styling.New(doc, styling.WithLogger(logger))
	if base != "" {
		n, err := reg.Hydrate()
		if err != nil {
			logger.Warn("some server-rendered rules were skipped", "error", err)
		}
		logger.Info("adopted server-rendered rules", "count", n)
	}

	res := config.Apply(m, reg)
	logger.Info("manifest applied", "path", path, "inserted", res.Inserted, "removed", res.Removed, "missed", res.Missed)

	setTitle(doc, m.Title)
	return &workspace{manifest: m, doc: doc, reg: reg}, nil
}

// setTitle fills the page's <title>, creating it when missing
func setTitle(doc *htmldoc.Document, title string) {
	titles, _ := doc.QuerySelectorAll("head > title")
	if len(titles) > 0 {
		titles[0].SetTextContent(title)
		return
	}
	el := doc.CreateElement("title")
	el.SetTextContent(title)
	doc.Head().AppendChild(el)
}

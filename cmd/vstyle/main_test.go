package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `title: Test page
rules:
  - selector: .card
    properties:
      color: red
  - selector: .card
    media: print
    properties:
      color: black
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRender(t *testing.T) {
	path := writeFile(t, "styles.yaml", testManifest)

	out, err := execute(t, "render", path)
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Test page</title>")
	assert.Contains(t, out, `data-vstyle-selector=".card"`)
	assert.Contains(t, out, `media="print"`)
	assert.Contains(t, out, ".card{color : red;}")

	out, err = execute(t, "render", "--css", path)
	require.NoError(t, err)
	assert.Equal(t, ".card{color : red;}\n@media print{.card{color : black;}}\n", out)
}

func TestRender_Base(t *testing.T) {
	base := writeFile(t, "page.html", `<html><head><title>Old</title>`+
		`<style data-vstyle-selector=".card">.card{margin : 0;}</style>`+
		`<style data-vstyle-selector=".old">.old{color : gray;}</style>`+
		`</head><body></body></html>`)
	path := writeFile(t, "styles.yaml", testManifest)

	out, err := execute(t, "render", "--css", "--base", base, path)
	require.NoError(t, err)
	assert.Equal(t, ".card{margin : 0;color : red;}\n@media print{.card{color : black;}}\n.old{color : gray;}\n", out)
}

func TestList(t *testing.T) {
	path := writeFile(t, "styles.yaml", testManifest)

	out, err := execute(t, "list", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Selector")
	assert.Contains(t, out, "print")
	assert.Contains(t, out, "2 rules across 1 selectors")
}

func TestErrors(t *testing.T) {
	_, err := execute(t, "render", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "rules:\n  - properties: {color: red}\n")
	_, err = execute(t, "list", bad)
	assert.ErrorContains(t, err, "selector is required")

	_, err = execute(t, "--log-level", "loud", "render", bad)
	assert.ErrorContains(t, err, "unknown log level")
}

func TestStyleServer(t *testing.T) {
	path := writeFile(t, "styles.yaml", testManifest)
	s, err := newStyleServer(path, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer s.hub.Close()

	srv := httptest.NewServer(s.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), livePath)
	assert.Contains(t, string(body), ".card{color : red;}")

	resp, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, os.WriteFile(path, []byte("title: Next\nrules:\n  - selector: .card\n    properties: {margin: 0}\n"), 0o644))
	require.NoError(t, s.reload())

	resp, err = http.Get(srv.URL + "/vstyle.css")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, ".card{margin : 0;}\n", string(body))
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/css"))

	// a broken edit keeps the last good rules
	require.NoError(t, os.WriteFile(path, []byte("rules: [\n"), 0o644))
	assert.Error(t, s.reload())
	assert.Equal(t, 1, s.ws.reg.Len())
}

func TestStyleServer_ReloadWhileServing(t *testing.T) {
	path := writeFile(t, "styles.yaml", testManifest)
	s, err := newStyleServer(path, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.run(ctx, "127.0.0.1:0", false) }()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("title: Next\nrules:\n  - selector: .card\n    properties: {margin: 0}\n"), 0o644))
		require.NoError(t, s.reload())
	}
	assert.Equal(t, "Next", s.title())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

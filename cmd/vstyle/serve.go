package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/recera/vstyle/internal/config"
	"github.com/recera/vstyle/pkg/live"
	"github.com/recera/vstyle/pkg/tools"
)

const (
	livePath       = "/vstyle/live"
	reloadDebounce = 100 * time.Millisecond
)

// liveScript keeps the page's <style> nodes in step with the hub
const liveScript = `(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "` + livePath + `");
  function find(op) {
    var sel = 'style[data-vstyle-selector="' + CSS.escape(op.selector) + '"]';
    var media = op.media && op.media !== "none" ? op.media : "";
    var nodes = document.head.querySelectorAll(sel);
    for (var i = 0; i < nodes.length; i++) {
      if ((nodes[i].getAttribute("media") || "") === media) return nodes[i];
    }
    return null;
  }
  ws.onmessage = function (ev) {
    var op = JSON.parse(ev.data);
    if (op.op === "hello") return;
    var el = find(op);
    if (op.op === "remove") {
      if (el) el.remove();
      return;
    }
    if (!el) {
      el = document.createElement("style");
      el.setAttribute("data-vstyle-selector", op.selector);
      if (op.media && op.media !== "none") el.setAttribute("media", op.media);
      document.head.appendChild(el);
    }
    el.textContent = op.css;
  };
})();`

type serveOptions struct {
	addr    string
	noWatch bool
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve <manifest>",
		Short: "Serve the page and push manifest edits to open browsers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newStyleServer(args[0], root.base, slog.Default())
			if err != nil {
				return err
			}
			defer s.hub.Close()

			addr := opts.addr
			if addr == "" {
				addr = s.ws.manifest.Addr
			}
			return s.run(cmd.Context(), addr, !opts.noWatch)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (defaults to the manifest's addr)")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not reload the manifest when it changes")
	return cmd
}

// styleServer serves one workspace and reloads it from disk
type styleServer struct {
	path   string
	logger *slog.Logger
	ws     *workspace
	hub    *live.Hub

	// serializes reloads
	mu sync.Mutex
}

func newStyleServer(path, base string, logger *slog.Logger) (*styleServer, error) {
	ws, err := openWorkspace(path, base, logger)
	if err != nil {
		return nil, err
	}

	script := ws.doc.CreateElement("script")
	script.SetTextContent(liveScript)
	ws.doc.Body().AppendChild(script)

	return &styleServer{
		path:   path,
		logger: logger,
		ws:     ws,
		hub:    live.NewHub(ws.reg, logger),
	}, nil
}

func (s *styleServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(livePath, s.hub)
	mux.HandleFunc("/vstyle.css", s.handleCSS)
	mux.HandleFunc("/", s.handlePage)
	return mux
}

func (s *styleServer) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.ws.doc.Render(w); err != nil {
		s.logger.Error("failed to render page", "error", err)
	}
}

func (s *styleServer) handleCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	io.WriteString(w, s.ws.reg.CSS())
}

// reload re-reads the manifest and re-applies it from scratch. A broken
// manifest leaves the current rules in place.
func (s *styleServer) reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := config.Load(s.path)
	if err != nil {
		s.logger.Warn("manifest reload failed", "error", err)
		return err
	}

	s.ws.reg.Clear()
	res := config.Apply(m, s.ws.reg)
	s.ws.manifest = m
	setTitle(s.ws.doc, m.Title)

	s.logger.Info("manifest reloaded", "inserted", res.Inserted, "removed", res.Removed, "clients", s.hub.Clients())
	return nil
}

// title is the title of the manifest applied last
func (s *styleServer) title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws.manifest.Title
}

// watch reloads on writes to the manifest until ctx is done. The directory
// is watched so editors that replace the file are still seen.
func (s *styleServer) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	target, err := filepath.Abs(s.path)
	if err != nil {
		watcher.Close()
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	reload := tools.Debounce(func(fsnotify.Event) { s.reload() }, reloadDebounce, false)

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if name, _ := filepath.Abs(event.Name); name != target {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					s.logger.Debug("manifest changed", "op", event.Op.String())
					reload(event)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("watcher error", "error", err)
			}
		}
	}()
	return nil
}

func (s *styleServer) run(ctx context.Context, addr string, watch bool) error {
	if watch {
		if err := s.watch(ctx); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	title := s.title()
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", addr, "live", livePath, "watch", watch)
		fmt.Printf("vstyle serving %s on http://%s\n", title, displayAddr(addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

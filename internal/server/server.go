// Package server implements the development HTTP server: it serves a
// generated content tree from memory, answers the browser's reload poll and
// passes static assets through from disk.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/picogen/picogen/internal/config"
	"github.com/picogen/picogen/internal/site"
)

// watchdogScript polls /change once a second and reloads the page when the
// server reports a rebuild. Injected before </head> in every served page.
const watchdogScript = `
    <script type="module">
        let __reload_check = () => {
            fetch('/change').then(response => response.json()).then(data => {
                if (data.reload) {
                    console.log('Change detected. Reloading...');
                    location.reload();
                } else {
                    setTimeout(__reload_check, 1000);
                }
            });
        };
        setTimeout(__reload_check, 1000);
    </script>`

var headTag = regexp.MustCompile(`(\s*</head>)`)

// Server serves one generated content tree. The tree is immutable for the
// server's lifetime; a rebuild means a fresh process started by the watcher,
// never an in-place swap. Only the reload flag mutates, under mu, in the
// poll-and-clear of /change.
type Server struct {
	cfg     *config.Config
	content site.ContentDir
	static  http.Handler
	log     *slog.Logger

	mu     sync.Mutex
	reload bool

	httpSrv *http.Server
	cancel  context.CancelFunc
}

// New builds a server for a content tree. When reload is true the first
// /change poll reports a pending reload, which a relaunched server uses to
// refresh browsers that were connected to its predecessor.
func New(cfg *config.Config, content site.ContentDir, reload bool, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:     cfg,
		content: content,
		static:  http.FileServer(http.Dir(cfg.BasePath())),
		log:     log,
		reload:  reload,
	}
}

// ListenAndServe blocks until the context is canceled or a /stop request
// arrives, then shuts the listener down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	defer s.cancel()

	s.httpSrv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		_ = s.httpSrv.Shutdown(shutdownCtx)
	}()

	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	s.logRequest(r)

	p := r.URL.Path
	outPrefix := "/" + s.cfg.Output
	switch {
	case p == "/change":
		s.mu.Lock()
		flag := s.reload
		s.reload = false
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"reload": flag})
	case p == "/stop":
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "Server Stopped.")
		if s.cancel != nil {
			s.cancel()
		}
	case strings.HasPrefix(p, outPrefix+"/"+s.cfg.Static+"/"):
		// The only disk-backed path: static assets under the working directory.
		r2 := r.Clone(r.Context())
		r2.URL.Path = strings.TrimPrefix(p, outPrefix)
		s.static.ServeHTTP(w, r2)
	case p == outPrefix:
		redirect(w, outPrefix+"/")
	case strings.HasPrefix(p, outPrefix+"/"):
		s.servePage(w, r, strings.TrimPrefix(p, outPrefix+"/"))
	default:
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

// servePage resolves a page path against the in-memory content tree.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request, rest string) {
	name := strings.TrimSuffix(rest, ".html")
	if name == "" || strings.HasSuffix(name, "/") {
		name += "index"
	}

	var node site.ContentNode = s.content
	for _, seg := range strings.Split(name, "/") {
		dir, ok := node.(site.ContentDir)
		if !ok {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		if node, ok = dir[seg]; !ok {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
	}

	switch n := node.(type) {
	case site.ContentDir:
		// Directory-like route requested without a trailing slash.
		redirect(w, r.URL.Path+"/")
	case site.ContentPage:
		html := string(n)
		if !s.cfg.NoReload {
			html = headTag.ReplaceAllString(html, watchdogScript+"\n$1")
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, html)
	default:
		s.log.Error("route resolved to neither a directory nor a page", "path", r.URL.Path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func redirect(w http.ResponseWriter, location string) {
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusMovedPermanently)
}

// logRequest skips /change polls, which would otherwise flood the log once a
// second per open browser tab.
func (s *Server) logRequest(r *http.Request) {
	if s.cfg.NoLog || r.URL.Path == "/change" {
		return
	}
	s.log.Info("request", "method", r.Method, "path", r.URL.Path)
}

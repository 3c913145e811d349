package publish

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// reloadScript is injected into previewed documents so the browser
// reloads whenever the document changes.
const reloadScript = `<script>
(function () {
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onmessage = function () { location.reload(); };
})();
</script>`

// PreviewServer serves the current document on localhost and pushes a
// reload notification over websocket whenever it is replaced.
type PreviewServer struct {
	log    zerolog.Logger
	router chi.Router

	mu      sync.RWMutex
	doc     string
	clients map[*websocket.Conn]struct{}

	httpServer *http.Server
}

// NewPreviewServer creates a preview server seeded with an initial
// document.
func NewPreviewServer(doc string, logger zerolog.Logger) *PreviewServer {
	s := &PreviewServer{
		log:     logger,
		doc:     doc,
		clients: make(map[*websocket.Conn]struct{}),
	}
	s.router = s.buildRouter()
	return s
}

func (s *PreviewServer) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleDocument)
	r.Get("/ws", s.handleWebSocket)
	return r
}

// Router returns the chi router, mainly for tests.
func (s *PreviewServer) Router() chi.Router { return s.router }

func (s *PreviewServer) handleDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()

	// Inject the live-reload hook just before </body> when present.
	if i := strings.LastIndex(doc, "</body>"); i >= 0 {
		doc = doc[:i] + reloadScript + doc[i:]
	} else {
		doc += reloadScript
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(doc))
}

func (s *PreviewServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("preview: websocket upgrade failed")
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	s.log.Debug().Str("remote", r.RemoteAddr).Msg("preview: client connected")

	// Drain reads until the client disconnects.
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// SetDocument replaces the previewed document and notifies connected
// browsers to reload.
func (s *PreviewServer) SetDocument(doc string) {
	s.mu.Lock()
	s.doc = doc
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, []byte("reload")); err != nil {
			s.log.Debug().Err(err).Msg("preview: dropping client")
		}
	}
}

// Start begins listening on the given port and blocks until shutdown.
func (s *PreviewServer) Start(port int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info().Str("addr", addr).Msg("preview server listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// URL returns the address the preview is reachable at for the given port.
func (s *PreviewServer) URL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d", port)
}

// Shutdown gracefully stops the server.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

package bot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/Akshit-Devx/attendance-bot/internal/metrics"
	"github.com/Akshit-Devx/attendance-bot/internal/slack"
)

const (
	maxEventBody = 1 << 20
	// Slack retries deliveries that take longer than 3s; we ack first and
	// process in the background with our own deadline.
	eventHandleTimeout = 60 * time.Second
)

// HTTPServer serves the Events API endpoint, a health check, and /metrics.
type HTTPServer struct {
	handler       *Handler
	signingSecret string
	logPrefix     string
	srv           *http.Server
}

func NewHTTPServer(addr string, handler *Handler, signingSecret, logPrefix string) *HTTPServer {
	s := &HTTPServer{handler: handler, signingSecret: signingSecret, logPrefix: logPrefix}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHealth)
	mux.HandleFunc("/api/slack/events", s.handleEvents)
	mux.Handle("/metrics", metrics.Handler())

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("%s listening on %s", s.logPrefix, s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Attendance bot is running!"))
}

func (s *HTTPServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	ts := r.Header.Get("X-Slack-Request-Timestamp")
	sig := r.Header.Get("X-Slack-Signature")
	if !slack.VerifySignature(s.signingSecret, ts, sig, body) {
		log.Printf("%s rejected event with bad signature", s.logPrefix)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var cb slack.EventCallback
	if err := json.Unmarshal(body, &cb); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	switch cb.Type {
	case "url_verification":
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"challenge": cb.Challenge})
		return
	case "event_callback":
		// Ack immediately so Slack doesn't redeliver, then process async.
		w.WriteHeader(http.StatusOK)
		if cb.Event == nil || cb.Event.Type != "message" {
			return
		}
		ev := cb.Event
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), eventHandleTimeout)
			defer cancel()
			s.handler.HandleMessage(ctx, ev)
		}()
	default:
		w.WriteHeader(http.StatusOK)
	}
}

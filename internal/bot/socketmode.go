package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Akshit-Devx/attendance-bot/internal/slack"
)

// ConnOpener fetches a fresh Socket Mode websocket URL.
type ConnOpener interface {
	ConnectionsOpen(ctx context.Context, appToken string) (string, error)
}

// SocketModeOptions tunes the websocket connection.
type SocketModeOptions struct {
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
}

func (o SocketModeOptions) withDefaults() SocketModeOptions {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = 10 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 60 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.InitialBackoff <= 0 {
		o.InitialBackoff = 500 * time.Millisecond
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = 10 * time.Second
	}
	return o
}

// SocketMode maintains a Socket Mode connection and feeds message events
// into the handler.
type SocketMode struct {
	opener    ConnOpener
	appToken  string
	handler   *Handler
	logPrefix string
	opts      SocketModeOptions
}

func NewSocketMode(opener ConnOpener, appToken string, handler *Handler, logPrefix string, opts SocketModeOptions) *SocketMode {
	return &SocketMode{
		opener:    opener,
		appToken:  appToken,
		handler:   handler,
		logPrefix: logPrefix,
		opts:      opts.withDefaults(),
	}
}

// Run connects and reconnects until ctx is canceled. Backoff doubles per
// failed attempt up to MaxBackoff and resets after a healthy session.
func (s *SocketMode) Run(ctx context.Context) error {
	backoff := s.opts.InitialBackoff

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		started := time.Now()
		err := s.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if time.Since(started) > time.Minute {
			backoff = s.opts.InitialBackoff
		}

		log.Printf("%s socket disconnected (%v), reconnecting in %s", s.logPrefix, err, backoff)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if backoff < s.opts.MaxBackoff {
			backoff *= 2
			if backoff > s.opts.MaxBackoff {
				backoff = s.opts.MaxBackoff
			}
		}
	}
}

// envelope is the Socket Mode frame wrapper.
type envelope struct {
	Type       string `json:"type"`
	EnvelopeID string `json:"envelope_id"`
	Payload    struct {
		Type  string              `json:"type"`
		Event *slack.MessageEvent `json:"event"`
	} `json:"payload"`
	Reason string `json:"reason"`
}

func (s *SocketMode) runOnce(ctx context.Context) error {
	wsURL, err := s.opener.ConnectionsOpen(ctx, s.appToken)
	if err != nil {
		return fmt.Errorf("apps.connections.open: %w", err)
	}

	dialer := websocket.Dialer{HandshakeTimeout: s.opts.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial socket mode: %w", err)
	}
	defer conn.Close()

	var writeMu sync.Mutex
	sendJSON := func(v any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
		return conn.WriteJSON(v)
	}

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutdown"),
				time.Now().Add(2*time.Second))
			_ = conn.Close()
		case <-stop:
		}
	}()
	defer close(stop)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		var env envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			log.Printf("%s bad socket frame: %v", s.logPrefix, err)
			continue
		}

		switch env.Type {
		case "hello":
			log.Printf("%s socket mode connected", s.logPrefix)
		case "disconnect":
			// Slack asks us to reconnect (refresh_requested etc).
			return errors.New("server requested disconnect: " + env.Reason)
		case "events_api":
			if env.EnvelopeID != "" {
				if err := sendJSON(map[string]string{"envelope_id": env.EnvelopeID}); err != nil {
					return fmt.Errorf("ack envelope: %w", err)
				}
			}
			if env.Payload.Event != nil && env.Payload.Event.Type == "message" {
				s.handler.HandleMessage(ctx, env.Payload.Event)
			}
		default:
			if env.EnvelopeID != "" {
				_ = sendJSON(map[string]string{"envelope_id": env.EnvelopeID})
			}
		}
	}
}

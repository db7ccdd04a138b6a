// Command attendance-bot runs the attendance chat bot: it ingests status
// messages from a channel, classifies them, stores them, and answers
// report commands.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Akshit-Devx/attendance-bot/internal/attendance"
	"github.com/Akshit-Devx/attendance-bot/internal/bot"
	"github.com/Akshit-Devx/attendance-bot/internal/classifier"
	"github.com/Akshit-Devx/attendance-bot/internal/config"
	"github.com/Akshit-Devx/attendance-bot/internal/httpx"
	"github.com/Akshit-Devx/attendance-bot/internal/metrics"
	"github.com/Akshit-Devx/attendance-bot/internal/slack"
	"github.com/Akshit-Devx/attendance-bot/internal/store"
)

const logPrefix = "[attendance-bot]"

func main() {
	config.LoadDotEnv(logPrefix)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%s config: %v", logPrefix, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && ctx.Err() == nil {
		log.Fatalf("%s %v", logPrefix, err)
	}
	log.Printf("%s shutdown complete", logPrefix)
}

func run(ctx context.Context, cfg *config.Config) error {
	httpClient, err := httpx.NewClient(cfg.SlackTimeout, cfg.Proxy)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	log.Printf("%s store ready path=%s", logPrefix, cfg.DBPath)

	cls, err := classifier.New(classifier.Config{
		BaseURL: cfg.OpenAIBaseURL,
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
	}, nil, logPrefix)
	if err != nil {
		return err
	}

	client := slack.NewClient(cfg.SlackAPIBase, cfg.SlackBotToken, httpClient)
	names := slack.NewUserCache(client)

	// The bot's own user id drives mention-command detection. A failed
	// auth.test leaves commands disabled but status ingestion working.
	botUserID := ""
	authCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if id, err := client.AuthTest(authCtx); err != nil {
		log.Printf("%s auth.test failed, mention commands disabled: %v", logPrefix, err)
	} else {
		botUserID = id
		log.Printf("%s authenticated bot_user=%s", logPrefix, id)
	}
	cancel()

	ing := attendance.NewIngestor(st, cls, cls, logPrefix)
	agg := attendance.NewAggregator(st)
	handler := bot.NewHandler(ing, agg, st, client, names, botUserID, logPrefix)

	switch cfg.Mode {
	case "socket":
		log.Printf("%s starting in socket mode", logPrefix)
		go serveMetrics(ctx, cfg.ListenAddr)
		sm := bot.NewSocketMode(client, cfg.SlackAppToken, handler, logPrefix, bot.SocketModeOptions{})
		return sm.Run(ctx)
	default:
		log.Printf("%s starting events server mode", logPrefix)
		srv := bot.NewHTTPServer(cfg.ListenAddr, handler, cfg.SlackSigningSecret, logPrefix)
		return srv.Run(ctx)
	}
}

// serveMetrics exposes /metrics in socket mode, where there is no events
// listener to attach it to.
func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("%s metrics listener failed: %v", logPrefix, err)
	}
}

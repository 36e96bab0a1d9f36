package orchestrator

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"idt-crispr-bot/internal/config"
	"idt-crispr-bot/internal/idt"
	"idt-crispr-bot/internal/metrics"
	"idt-crispr-bot/internal/slackbot"
)

// App wires the token cache, design client, dispatcher and chat transport.
type App struct {
	cfg        config.Runtime
	log        *zap.Logger
	registry   *prometheus.Registry
	dispatcher *Dispatcher
	bot        *slackbot.Bot
}

func New(cfg config.Runtime, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	tokens := idt.NewTokenSource(idt.Credentials{
		TokenURL:     cfg.IDT.TokenURL,
		ClientID:     cfg.IDT.ClientID,
		ClientSecret: cfg.IDT.ClientSecret,
		Username:     cfg.IDT.Username,
		Password:     cfg.IDT.Password,
		Scope:        cfg.IDT.Scope,
	}, cfg.IDT.AuthTimeout, logger.Named("token"), idt.WithTokenMetrics(m))
	client := idt.NewClient(cfg.IDT.BaseURL, tokens, cfg.IDT.RequestTimeout, logger.Named("idt"), idt.WithMetrics(m))
	dispatcher := NewDispatcher(client, cfg.IDT.ResultCount, logger.Named("dispatcher"), m)

	return &App{
		cfg:        cfg,
		log:        logger,
		registry:   reg,
		dispatcher: dispatcher,
		bot:        slackbot.New(cfg.Slack.BotToken, cfg.Slack.AppToken, cfg.Slack.Debug, dispatcher, logger.Named("slack")),
	}, nil
}

// Run serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: a.cfg.MetricsAddr, Handler: a.metricsMux(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			a.log.Info("metrics listening", zap.String("addr", a.cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error("metrics server stopped", zap.Error(err))
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}
	return a.bot.Run(ctx)
}

func (a *App) metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.registry))
	return mux
}

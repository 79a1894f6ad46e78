package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"iplinsight/internal/advisory"
	"iplinsight/internal/gateway/config"
	"iplinsight/internal/gateway/handler"
	"iplinsight/internal/gateway/server"
	"iplinsight/internal/llm"
	llmclient "iplinsight/internal/llmClient"
	"iplinsight/internal/roster"
)

const traceLimit = 200

type App struct {
	server *server.Server
	llm    llmclient.LLMClient
	logger *zap.Logger
}

// New wires the gateway from cfg. The caller owns logger.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Dependencies
	client, err := llm.NewClient(ctx, cfg.LLM.Client(), logger, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to build llm client: %w", err)
	}
	advisor, err := advisory.New(client, advisory.WithLogger(logger), advisory.WithRegisterer(reg))
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to build advisory client: %w", err)
	}
	players, err := roster.Load()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	h := handler.New(handler.Config{
		Advisory:       advisor,
		Roster:         players,
		Pending:        advisory.NewPending(),
		Logger:         logger,
		Trace:          llm.NewTraceRecorder(traceLimit),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// Routing & Server
	router := server.NewRouter(h, cfg.AllowedOrigins, reg)
	srv := server.New(cfg.Port, router, logger)

	logger.Info("gateway configured",
		zap.String("env", cfg.Env),
		zap.String("llm", client.Name()),
		zap.Duration("llm_timeout", cfg.LLM.Timeout),
	)
	return &App{server: srv, llm: client, logger: logger}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

// Shutdown drains the HTTP server and then releases the inference client.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.llm.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

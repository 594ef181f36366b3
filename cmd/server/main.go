package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/hperssn/focusnest/internal/chat"
	"github.com/hperssn/focusnest/internal/config"
	httpapi "github.com/hperssn/focusnest/internal/http"
	"github.com/hperssn/focusnest/internal/runner"
	"github.com/hperssn/focusnest/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           cfg.Level(),
	})

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func run(cfg config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clockwork.NewRealClock()

	repo, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN(), clk)
	if err != nil {
		return err
	}
	defer repo.Close()

	notifier := runner.MultiNotifier{runner.LogNotifier{Logger: logger.WithPrefix("notify")}}
	if cfg.Timer.Bell {
		notifier = append(notifier, runner.BellNotifier{W: os.Stdout})
	}
	controller := runner.NewController(clk, notifier, logger.WithPrefix("timer"), cfg.Timer.FocusMinutes)

	completer := chat.NewOpenAICompleter(chat.OpenAIConfig{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	})
	if cfg.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, chat replies will use the fallback message")
	}
	chatService := chat.NewService(repo, completer, logger.WithPrefix("chat"))

	api := httpapi.NewServer(repo, controller, chatService, logger.WithPrefix("http"))
	if cfg.StaticDir != "" {
		api.ServeStatic(cfg.StaticDir)
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "storage", cfg.Storage.Driver, "focusMinutes", cfg.Timer.FocusMinutes)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		controller.Close()
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	// closing the controller ends every open event stream
	controller.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

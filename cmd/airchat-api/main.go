// README: Entry point; loads config, wires services, serves HTTP until SIGINT/SIGTERM.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"airchat/internal/app"
	"airchat/internal/config"
	httptransport "airchat/internal/http"
	"airchat/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("app init", zap.Error(err))
	}
	defer a.Close()

	server := httptransport.NewServer(cfg.HTTP.Addr, a.Handler(), lg.Named("http"))
	if err := server.Run(ctx); err != nil {
		lg.Error("http server", zap.Error(err))
		return
	}
	lg.Info("stopped")
}

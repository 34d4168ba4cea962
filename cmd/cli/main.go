package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/ndisdirectory/internal/app"
	"github.com/dmitrijs2005/ndisdirectory/internal/buildinfo"
	"github.com/dmitrijs2005/ndisdirectory/internal/cli"
	"github.com/dmitrijs2005/ndisdirectory/internal/config"
	"github.com/dmitrijs2005/ndisdirectory/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	state, err := app.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer state.Close()

	if err := state.Bootstrap(ctx); err != nil {
		logger.Error(ctx, "bootstrap failed", "err", err)
	}

	cli.NewApp(state, os.Stdin, os.Stdout, logger).Run(ctx)

}

// Command stockdeck-server runs the stockdeck HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stockdeck/stockdeck/internal/app"
	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/server"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to config file (TOML)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(common.GetFullVersion())
		return
	}

	paths := []string{"stockdeck.toml"}
	if env := os.Getenv("STOCKDECK_CONFIG"); env != "" {
		paths = append(paths, env)
	}
	if *configPath != "" {
		paths = append(paths, *configPath)
	}

	application, err := app.New(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	srv := server.NewServer(application)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			application.Logger.Error().Err(err).Msg("Server failed")
			os.Exit(1)
		}
	case sig := <-sigCh:
		application.Logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			application.Logger.Error().Err(err).Msg("Graceful shutdown failed")
			os.Exit(1)
		}
	}

	application.Logger.Info().Msg("Stopped")
}

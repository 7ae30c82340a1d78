package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/blackcloro/conta-repository/internal/config"
	"github.com/blackcloro/conta-repository/internal/database"
	"github.com/blackcloro/conta-repository/internal/domain/account"
	infra "github.com/blackcloro/conta-repository/internal/infrastructure/database"
	"github.com/blackcloro/conta-repository/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Stdout carries only the account messages.
	logger.InitLogger(cfg.Log.Level, os.Stderr)

	connector, err := database.NewConnector(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to build database connector", err)
	}

	repo := infra.NewPostgresAccountRepository(connector, cfg.DB.StatementTimeout)
	service := account.NewService(repo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Running account demonstration", "host", cfg.DB.Host, "database", cfg.DB.Name)

	run(ctx, os.Stdout, service)
}

// run prints one message per step of the demonstration to out.
func run(ctx context.Context, out io.Writer, service *account.Service) {
	for _, res := range service.Demonstrate(ctx, "12345", 1000.0, 1500.0) {
		fmt.Fprintln(out, res)
	}
}

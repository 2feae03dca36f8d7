package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/cardtrack/internal/admin"
	"github.com/dmitrijs2005/cardtrack/internal/flagx"
	"github.com/dmitrijs2005/cardtrack/internal/logging"
	"github.com/dmitrijs2005/cardtrack/internal/server/auth"
	"github.com/dmitrijs2005/cardtrack/internal/server/config"
	"github.com/dmitrijs2005/cardtrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cardtrack/internal/server/services"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	valueFlags := append([]string{"-c", "-config", "--config"}, config.ServerFlags...)
	globals, command, rest := flagx.SplitCommand(os.Args[1:], valueFlags)

	cfg, err := config.Load(globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	if command == "" || command == "help" {
		admin.NewApp(nil, nil, logger, os.Stdin, os.Stdout).Usage()
		return 0
	}

	db, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	users := services.NewUserService(db, rm, auth.NewBcryptHasher(cfg.BcryptCost), cfg)
	migrate := func(ctx context.Context) error { return rm.RunMigrations(ctx, db) }

	app := admin.NewApp(users, migrate, logger, os.Stdin, os.Stdout)
	if err := app.Run(ctx, command, rest); err != nil {
		fmt.Fprintf(os.Stderr, "cardctl %s: %v\n", command, err)
		if errors.Is(err, admin.ErrUsage) {
			return 2
		}
		return 1
	}
	return 0
}

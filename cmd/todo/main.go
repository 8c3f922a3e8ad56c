package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/internal/bootstrap"
	"github.com/shxlzz/To-Do-List/internal/config"
	"github.com/shxlzz/To-Do-List/internal/render"
	"github.com/shxlzz/To-Do-List/internal/repl"
	"github.com/shxlzz/To-Do-List/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flagSet := pflag.NewFlagSet("todo", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.Storage.Backend, "backend", cfg.Storage.Backend, "storage backend: bolt, redis or postgres")
	flagSet.StringVar(&cfg.Storage.BoltPath, "data", cfg.Storage.BoltPath, "bolt database file")
	flagSet.StringVar(&cfg.Redis.URL, "redis-url", cfg.Redis.URL, "redis connection URL")
	flagSet.StringVar(&cfg.Database.URL, "database-url", cfg.Database.URL, "postgres connection URL")
	flagSet.StringVar(&cfg.Logger.Level, "log-level", "warn", "log level (logs go to stderr)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: "console",
		Output:   os.Stderr,
	})
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	term := render.NewTerminal(os.Stdout)
	rt, err := bootstrap.Build(context.Background(), cfg, term, zapLogger)
	if err != nil {
		return err
	}

	ctx, cancel := rt.Lifecycle.Listen(context.Background())
	defer cancel()

	go func() {
		// unblocks the pending read when a signal arrives
		<-ctx.Done()
		_ = os.Stdin.Close()
	}()

	shell := repl.New(rt.App, term, os.Stdin, os.Stdout, zapLogger.Named("repl"))
	runErr := shell.Run(ctx)

	if err := rt.Shutdown(context.Background()); err != nil {
		zapLogger.Error("shutdown failed", zap.Error(err))
	}
	return runErr
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `todo - terminal to-do list with accounts and themes.

Settings are read from the environment (and .env); flags override them.

Usage:
  todo [flags]

Flags:
%s`, flagSet.FlagUsages())
}

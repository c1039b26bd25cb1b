package cmd

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/finance/logging"
	"github.com/etnz/finance/server"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type serveCmd struct {
	addr         string
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the finance data as a JSON HTTP API" }
func (*serveCmd) Usage() string {
	return `fin serve [-addr :8080]

  Serves the database as a JSON API, with prometheus metrics on /metrics.
  Logs are JSON lines on stdout. See 'fin topic server' for the routes.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	d := server.DefaultConfig()
	f.StringVar(&c.addr, "addr", envOr("FIN_ADDR", d.Address), "Address to listen on.")
	f.DurationVar(&c.readTimeout, "read-timeout", d.ReadTimeout, "HTTP read timeout.")
	f.DurationVar(&c.writeTimeout, "write-timeout", d.WriteTimeout, "HTTP write timeout.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger, err := logging.New(logging.FromEnv(logging.ServerConfig()))
	if err != nil {
		return fail(err)
	}
	defer logger.Sync()
	logging.SetGlobal(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closer, err := openRepository(ctx)
	if err != nil {
		logger.Error("failed to open the database", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer closer()

	config := server.DefaultConfig()
	config.Address = c.addr
	config.ReadTimeout = c.readTimeout
	config.WriteTimeout = c.writeTimeout
	config.Logger = logger

	if err := server.New(repo, config).Run(ctx); err != nil {
		logger.Error("server failed", zap.Error(err))
		return subcommands.ExitFailure
	}
	logger.Info("server stopped")
	return subcommands.ExitSuccess
}

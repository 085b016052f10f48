package main

import (
	"context"
	"fmt"
	"os"

	"github.com/presencelabs/presence-contracts/internal/config"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const configFlag = "config"

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "presencectl"
	app.Usage = "manage Presence credentials and events"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   configFlag + ", c",
			Usage:  "path to YAML configuration file",
			EnvVar: "PRESENCE_CONFIG",
		},
	}
	app.Commands = []cli.Command{
		deployCommand(),
		claimCommand(),
		eventsCommand(),
		presenceCommand(),
		dumpCommand(),
	}
	return app
}

// env is a per-command environment: configuration and logger.
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func newEnv(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.GlobalString(configFlag))
	if err != nil {
		return nil, cli.NewExitError(fmt.Errorf("load configuration: %w", err), 1)
	}

	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(lvl)
	logCfg.Encoding = "console"
	logCfg.Sampling = nil

	log, err := logCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return &env{cfg: cfg, log: log}, nil
}

func (e *env) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), e.cfg.Timeout)
}

// connect dials the configured RPC endpoint.
func (e *env) connect(signer bool) (*remoteBlockchain, context.CancelFunc, error) {
	ctx, cancel := e.context()

	b, err := newRemoteBlockchain(ctx, e.cfg, signer)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	return b, func() {
		b.close()
		cancel()
		_ = e.log.Sync()
	}, nil
}

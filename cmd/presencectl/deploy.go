package main

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/presencelabs/presence-contracts/contracts"
	"github.com/presencelabs/presence-contracts/deploy"
	"github.com/presencelabs/presence-contracts/internal/config"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func deployCommand() cli.Command {
	return cli.Command{
		Name:  "deploy",
		Usage: "deploy Roles and Presence contracts and link them",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "admin",
				Usage: "admin of both contracts (default: signing account)",
			},
			cli.StringFlag{
				Name:  "contracts",
				Usage: "directory with compiled contracts (overrides configuration)",
			},
		},
		Action: deployAction,
	}
}

func deployAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	dir := e.cfg.ContractsDir
	if v := c.String("contracts"); v != "" {
		dir = v
	}

	set, err := contracts.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read contracts: %w", err)
	}

	var admin util.Uint160
	if v := c.String("admin"); v != "" {
		admin, err = config.ParseAddress(v)
		if err != nil {
			return fmt.Errorf("invalid admin address: %w", err)
		}
	}

	b, done, err := e.connect(true)
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := e.context()
	defer cancel()

	res, err := deploy.Deploy(ctx, deploy.Prm{
		Logger:     e.log,
		Blockchain: b.rpc,
		Account:    b.acc,
		Admin:      admin,
		Contracts:  set,
	})
	if err != nil {
		return err
	}

	e.log.Info("deployment finished",
		zap.Stringer("roles", res.Roles), zap.Stringer("presence", res.Presence))

	fmt.Fprintf(c.App.Writer, "rolesContract: %s\npresenceContract: %s\n", res.Roles.StringLE(), res.Presence.StringLE())
	return nil
}

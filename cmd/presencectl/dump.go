package main

import (
	"encoding/hex"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli"
)

func dumpCommand() cli.Command {
	return cli.Command{
		Name:      "dump",
		Usage:     "print raw storage of the contract as hex key/value pairs",
		ArgsUsage: "roles|presence",
		Action:    dumpAction,
	}
}

func dumpAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	var h util.Uint160
	switch name := c.Args().First(); name {
	case "roles":
		h, err = e.cfg.RolesHash()
	case "presence":
		h, err = e.cfg.PresenceHash()
	default:
		return cli.NewExitError(fmt.Sprintf("unknown contract %q", name), 1)
	}
	if err != nil {
		return err
	}

	b, done, err := e.connect(false)
	if err != nil {
		return err
	}
	defer done()

	return b.iterateContractStorage(h, func(key, value []byte) error {
		_, err := fmt.Fprintf(c.App.Writer, "%s\t%s\n", hex.EncodeToString(key), hex.EncodeToString(value))
		return err
	})
}

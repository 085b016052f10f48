package main

import (
	"fmt"
	"math/big"

	"github.com/presencelabs/presence-contracts/internal/config"
	"github.com/presencelabs/presence-contracts/rpc/presence"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func presenceCommand() cli.Command {
	return cli.Command{
		Name:  "presence",
		Usage: "event attendance",
		Subcommands: []cli.Command{
			{
				Name:      "register",
				Usage:     "register the signing account as attendee",
				ArgsUsage: "<eventID>",
				Action:    registerAction,
			},
			{
				Name:      "list",
				Usage:     "list attendance log of the event",
				ArgsUsage: "<eventID>",
				Flags: []cli.Flag{
					cli.IntFlag{Name: "cursor", Usage: "number of entries to skip"},
					cli.IntFlag{Name: "limit", Value: 50, Usage: "maximum number of entries"},
				},
				Action: listAttendeesAction,
			},
			{
				Name:      "check",
				Usage:     "check whether attendee is registered",
				ArgsUsage: "<eventID> <attendee>",
				Action:    checkPresenceAction,
			},
		},
	}
}

func eventIDArg(c *cli.Context) (*big.Int, error) {
	if c.NArg() < 1 {
		return nil, cli.NewExitError("event ID is required", 1)
	}

	id, ok := new(big.Int).SetString(c.Args().First(), 10)
	if !ok || id.Sign() <= 0 {
		return nil, fmt.Errorf("invalid event ID %q", c.Args().First())
	}

	return id, nil
}

func registerAction(c *cli.Context) error {
	id, err := eventIDArg(c)
	if err != nil {
		return err
	}

	e, err := newEnv(c)
	if err != nil {
		return err
	}

	presenceHash, err := e.cfg.PresenceHash()
	if err != nil {
		return err
	}

	b, done, err := e.connect(true)
	if err != nil {
		return err
	}
	defer done()

	aer, err := b.wait(presence.New(b.actor, presenceHash).RegisterPresence(id, b.sender()))
	if err != nil {
		return err
	}

	evs, err := presence.PresenceRegisteredEventsFromApplicationLog(applicationLog(aer))
	if err != nil {
		return fmt.Errorf("parse transaction events: %w", err)
	}

	for _, ev := range evs {
		e.log.Info("presence registered",
			zap.Stringer("event", ev.EventID), zap.Stringer("attendee", ev.Attendee), zap.Stringer("index", ev.Index))
	}

	return nil
}

func listAttendeesAction(c *cli.Context) error {
	id, err := eventIDArg(c)
	if err != nil {
		return err
	}

	e, err := newEnv(c)
	if err != nil {
		return err
	}

	presenceHash, err := e.cfg.PresenceHash()
	if err != nil {
		return err
	}

	b, done, err := e.connect(false)
	if err != nil {
		return err
	}
	defer done()

	list, err := presence.NewReader(b.inv, presenceHash).ListAttendees(id, big.NewInt(int64(c.Int("cursor"))), big.NewInt(int64(c.Int("limit"))))
	if err != nil {
		return err
	}

	for _, a := range list {
		status := "active"
		if !a.Active {
			status = "removed"
		}
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", a.Address.StringLE(), formatTimestamp(a.RegisteredAt.Int64()), status)
	}

	return nil
}

func checkPresenceAction(c *cli.Context) error {
	id, err := eventIDArg(c)
	if err != nil {
		return err
	}

	if c.NArg() != 2 {
		return cli.NewExitError("attendee address is required", 1)
	}

	attendee, err := config.ParseAddress(c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("invalid attendee: %w", err)
	}

	e, err := newEnv(c)
	if err != nil {
		return err
	}

	presenceHash, err := e.cfg.PresenceHash()
	if err != nil {
		return err
	}

	b, done, err := e.connect(false)
	if err != nil {
		return err
	}
	defer done()

	ok, err := presence.NewReader(b.inv, presenceHash).HasPresence(id, attendee)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, ok)
	return nil
}

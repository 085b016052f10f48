package main

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"time"

	"github.com/presencelabs/presence-contracts/rpc/presence"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func eventsCommand() cli.Command {
	return cli.Command{
		Name:  "events",
		Usage: "Presence events",
		Subcommands: []cli.Command{
			{
				Name:  "create",
				Usage: "create event (Supervisor only)",
				Flags: []cli.Flag{
					cli.StringFlag{Name: "name", Usage: "event name"},
					cli.StringFlag{Name: "start", Usage: "start time, RFC 3339 or Unix milliseconds"},
					cli.StringFlag{Name: "end", Usage: "end time, RFC 3339 or Unix milliseconds"},
				},
				Action: createEventAction,
			},
			{
				Name:   "upcoming",
				Usage:  "list events which have not ended yet",
				Action: upcomingAction,
			},
			{
				Name:  "closed",
				Usage: "list ended events, newest first",
				Flags: []cli.Flag{
					cli.IntFlag{Name: "cursor", Usage: "number of events to skip"},
					cli.IntFlag{Name: "limit", Value: 10, Usage: "maximum number of events"},
				},
				Action: closedAction,
			},
			{
				Name:  "list",
				Usage: "list events by ID",
				Flags: []cli.Flag{
					cli.IntFlag{Name: "from", Value: 1, Usage: "first event ID"},
					cli.IntFlag{Name: "limit", Value: 10, Usage: "number of IDs to inspect"},
				},
				Action: listEventsAction,
			},
		},
	}
}

func createEventAction(c *cli.Context) error {
	name := c.String("name")
	if name == "" {
		return cli.NewExitError("event name is required", 1)
	}

	start, err := parseTimestamp(c.String("start"))
	if err != nil {
		return fmt.Errorf("invalid start: %w", err)
	}

	end, err := parseTimestamp(c.String("end"))
	if err != nil {
		return fmt.Errorf("invalid end: %w", err)
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

	aer, err := b.wait(presence.New(b.actor, presenceHash).CreateEvent(name, big.NewInt(start), big.NewInt(end), b.sender()))
	if err != nil {
		return err
	}

	evs, err := presence.EventCreatedEventsFromApplicationLog(applicationLog(aer))
	if err != nil {
		return fmt.Errorf("parse transaction events: %w", err)
	}

	for _, ev := range evs {
		e.log.Info("event created", zap.Stringer("id", ev.EventID), zap.Stringer("operator", ev.Operator))
		fmt.Fprintln(c.App.Writer, ev.EventID)
	}

	return nil
}

func upcomingAction(c *cli.Context) error {
	return listEvents(c, func(r *presence.ContractReader) ([]*presence.EventSummary, error) {
		return r.ListUpcoming()
	})
}

func closedAction(c *cli.Context) error {
	return listEvents(c, func(r *presence.ContractReader) ([]*presence.EventSummary, error) {
		return r.ListClosed(big.NewInt(int64(c.Int("cursor"))), big.NewInt(int64(c.Int("limit"))))
	})
}

func listEventsAction(c *cli.Context) error {
	return listEvents(c, func(r *presence.ContractReader) ([]*presence.EventSummary, error) {
		return r.ListEvents(big.NewInt(int64(c.Int("from"))), big.NewInt(int64(c.Int("limit"))))
	})
}

func listEvents(c *cli.Context, list func(r *presence.ContractReader) ([]*presence.EventSummary, error)) error {
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

	evs, err := list(presence.NewReader(b.inv, presenceHash))
	if err != nil {
		return err
	}

	printEvents(c.App.Writer, evs)
	return nil
}

func printEvents(w io.Writer, evs []*presence.EventSummary) {
	for _, ev := range evs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ev.ID, formatTimestamp(ev.StartTs.Int64()), formatTimestamp(ev.EndTs.Int64()), ev.Name)
	}
}

// parseTimestamp accepts Unix milliseconds or RFC 3339 time and returns
// Unix milliseconds.
func parseTimestamp(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty time")
	}

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}

	return t.UnixMilli(), nil
}

func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/presencelabs/presence-contracts/claimlink"
	"github.com/presencelabs/presence-contracts/internal/config"
	"github.com/presencelabs/presence-contracts/rpc/roles"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var errNoClaimEvent = errors.New("no ClaimLinkGenerated event in transaction")

var linkFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "qr",
		Usage: "write link as QR code PNG to the given file",
	},
	cli.BoolFlag{
		Name:  "compact",
		Usage: "encode token in base58",
	},
	cli.StringFlag{
		Name:  "base",
		Usage: "frontend base URL (overrides configuration)",
	},
}

func claimCommand() cli.Command {
	return cli.Command{
		Name:  "claim",
		Usage: "credential claim links",
		Subcommands: []cli.Command{
			{
				Name:      "generate-supervisor",
				Usage:     "issue Supervisor claim link (admin only)",
				ArgsUsage: "<recipient>",
				Flags:     linkFlags,
				Action:    generateSupervisorAction,
			},
			{
				Name:      "generate-associate",
				Usage:     "issue Associate claim link (admin or Supervisor)",
				ArgsUsage: "<recipient>",
				Flags:     linkFlags,
				Action:    generateAssociateAction,
			},
			{
				Name:      "redeem",
				Usage:     "mint credential by claim link or token to the signing account",
				ArgsUsage: "<link|token>",
				Action:    redeemAction,
			},
			{
				Name:      "link",
				Usage:     "render claim link for a known token",
				ArgsUsage: "<link|token>",
				Flags:     linkFlags,
				Action:    linkAction,
			},
			{
				Name:      "show",
				Usage:     "print claim record",
				ArgsUsage: "<link|token>",
				Action:    showClaimAction,
			},
		},
	}
}

func generateSupervisorAction(c *cli.Context) error {
	return generateClaim(c, func(r *roles.Contract, recipient, _ util.Uint160) (util.Uint256, uint32, error) {
		return r.GenerateSupervisorClaimLink(recipient)
	})
}

func generateAssociateAction(c *cli.Context) error {
	return generateClaim(c, func(r *roles.Contract, recipient, operator util.Uint160) (util.Uint256, uint32, error) {
		return r.GenerateAssociateClaimLink(recipient, operator)
	})
}

func generateClaim(c *cli.Context, send func(r *roles.Contract, recipient, operator util.Uint160) (util.Uint256, uint32, error)) error {
	if c.NArg() != 1 {
		return cli.NewExitError("recipient address is required", 1)
	}

	recipient, err := config.ParseAddress(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}

	e, err := newEnv(c)
	if err != nil {
		return err
	}

	rolesHash, err := e.cfg.RolesHash()
	if err != nil {
		return err
	}

	b, done, err := e.connect(true)
	if err != nil {
		return err
	}
	defer done()

	aer, err := b.wait(send(roles.New(b.actor, rolesHash), recipient, b.sender()))
	if err != nil {
		return err
	}

	evs, err := roles.ClaimLinkGeneratedEventsFromApplicationLog(applicationLog(aer))
	if err != nil {
		return fmt.Errorf("parse transaction events: %w", err)
	}
	if len(evs) == 0 {
		return errNoClaimEvent
	}

	e.log.Info("claim link generated",
		zap.Stringer("role", evs[0].RoleID), zap.Stringer("recipient", evs[0].Recipient))

	return printLink(c, e.cfg, evs[0].Hash)
}

func redeemAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("claim link or token is required", 1)
	}

	h, err := claimlink.Parse(c.Args().First())
	if err != nil {
		return err
	}

	e, err := newEnv(c)
	if err != nil {
		return err
	}

	rolesHash, err := e.cfg.RolesHash()
	if err != nil {
		return err
	}

	b, done, err := e.connect(true)
	if err != nil {
		return err
	}
	defer done()

	aer, err := b.wait(roles.New(b.actor, rolesHash).ClaimNFT(h, b.sender()))
	if err != nil {
		return err
	}

	evs, err := roles.CredentialMintedEventsFromApplicationLog(applicationLog(aer))
	if err != nil {
		return fmt.Errorf("parse transaction events: %w", err)
	}

	for _, ev := range evs {
		fmt.Fprintf(c.App.Writer, "credential #%s (role %s) minted to %s\n", ev.TokenID, roleName(ev.RoleID.Int64()), ev.Recipient.StringLE())
	}

	return nil
}

func linkAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("claim link or token is required", 1)
	}

	h, err := claimlink.Parse(c.Args().First())
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.GlobalString(configFlag))
	if err != nil {
		return err
	}

	return printLink(c, cfg, h)
}

func showClaimAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("claim link or token is required", 1)
	}

	h, err := claimlink.Parse(c.Args().First())
	if err != nil {
		return err
	}

	e, err := newEnv(c)
	if err != nil {
		return err
	}

	rolesHash, err := e.cfg.RolesHash()
	if err != nil {
		return err
	}

	b, done, err := e.connect(false)
	if err != nil {
		return err
	}
	defer done()

	claim, err := roles.NewReader(b.inv, rolesHash).GetClaim(h)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "role: %s\nrecipient: %s\nvalid: %t\n",
		roleName(claim.RoleID.Int64()), claim.Recipient.StringLE(), claim.Valid)
	return nil
}

func printLink(c *cli.Context, cfg *config.Config, h util.Uint256) error {
	base := cfg.ClaimBaseURL
	if v := c.String("base"); v != "" {
		base = v
	}

	build := claimlink.Build
	if c.Bool("compact") {
		build = claimlink.BuildCompact
	}

	link, err := build(base, h)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, link)

	if p := c.String("qr"); p != "" {
		f, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("create QR file: %w", err)
		}
		defer f.Close()

		err = claimlink.WriteQR(f, link, claimlink.DefaultQRSize)
		if err != nil {
			return err
		}
	}

	return nil
}

func applicationLog(aer *state.AppExecResult) *result.ApplicationLog {
	return &result.ApplicationLog{
		Container:     aer.Container,
		IsTransaction: true,
		Executions:    []state.Execution{aer.Execution},
	}
}

func roleName(id int64) string {
	switch id {
	case roles.RoleAdmin.Int64():
		return "Admin"
	case roles.RoleSupervisor.Int64():
		return "Supervisor"
	case roles.RoleAssociate.Int64():
		return "Associate"
	default:
		return fmt.Sprintf("unknown(%d)", id)
	}
}

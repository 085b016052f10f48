package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/presencelabs/presence-contracts/claimlink"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, error) {
	var buf bytes.Buffer

	app := newApp()
	app.Writer = &buf
	app.ErrWriter = &buf

	err := app.Run(append([]string{"presencectl"}, args...))
	return buf.String(), err
}

func TestCommands(t *testing.T) {
	app := newApp()

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	require.ElementsMatch(t, []string{"deploy", "claim", "events", "presence", "dump"}, names)

	for cmd, subs := range map[string][]string{
		"claim":    {"generate-supervisor", "generate-associate", "redeem", "link", "show"},
		"events":   {"create", "upcoming", "closed", "list"},
		"presence": {"register", "list", "check"},
	} {
		var got []string
		for _, sc := range app.Command(cmd).Subcommands {
			got = append(got, sc.Name)
		}
		require.ElementsMatch(t, subs, got, cmd)
	}
}

func TestClaimLink(t *testing.T) {
	h := hash.Sha256([]byte("claim"))
	token := claimlink.Token(h)

	out, err := runApp(t, "claim", "link", "--base", "https://presence.example", token)
	require.NoError(t, err)
	require.Equal(t, "https://presence.example/claim?token="+token, strings.TrimSpace(out))

	qr := filepath.Join(t.TempDir(), "claim.png")
	out, err = runApp(t, "claim", "link", "--base", "https://presence.example", "--compact", "--qr", qr, token)
	require.NoError(t, err)
	require.Equal(t, "https://presence.example/claim?t="+claimlink.CompactToken(h), strings.TrimSpace(out))

	data, err := os.ReadFile(qr)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	_, err = runApp(t, "claim", "link", "not-a-token")
	require.ErrorIs(t, err, claimlink.ErrInvalidToken)
}

func TestParseTimestamp(t *testing.T) {
	ms, err := parseTimestamp("1700000000000")
	require.NoError(t, err)
	require.EqualValues(t, 1700000000000, ms)

	ms, err = parseTimestamp("2024-05-01T10:00:00Z")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).UnixMilli(), ms)
	require.Equal(t, "2024-05-01T10:00:00Z", formatTimestamp(ms))

	_, err = parseTimestamp("")
	require.Error(t, err)

	_, err = parseTimestamp("tomorrow")
	require.Error(t, err)
}

func TestRoleName(t *testing.T) {
	require.Equal(t, "Admin", roleName(1))
	require.Equal(t, "Supervisor", roleName(2))
	require.Equal(t, "Associate", roleName(3))
	require.Equal(t, "unknown(7)", roleName(7))
}

/*
Package claimlink builds and parses credential claim links.

A claim link points to the claim page of the web frontend and carries the
claim token returned by generateSupervisorClaimLink or
generateAssociateClaimLink:

	https://presence.example/claim?token=<64 hex chars>

Compact links carry the same token in base58 under the "t" parameter, which
produces denser QR codes:

	https://presence.example/claim?t=<base58>
*/
package claimlink

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/skip2/go-qrcode"
)

const (
	claimPath    = "claim"
	tokenParam   = "token"
	compactParam = "t"

	// DefaultQRSize is the side of the rendered QR image in pixels.
	DefaultQRSize = 256
)

var (
	// ErrInvalidToken is returned when a claim token is not a 32-byte value
	// in hex or base58 form.
	ErrInvalidToken = errors.New("invalid claim token")

	// ErrMissingToken is returned when a link has no token parameter.
	ErrMissingToken = errors.New("missing claim token")
)

// Token returns the textual form of the claim hash as used in links: raw
// hash bytes in hex.
func Token(h util.Uint256) string {
	return hex.EncodeToString(h.BytesBE())
}

// CompactToken returns base58 form of the claim hash.
func CompactToken(h util.Uint256) string {
	return base58.Encode(h.BytesBE())
}

// ParseToken decodes hex or base58 claim token.
func ParseToken(s string) (util.Uint256, error) {
	s = strings.TrimSpace(s)

	if len(s) == 2*util.Uint256Size {
		if b, err := hex.DecodeString(s); err == nil {
			return util.Uint256DecodeBytesBE(b)
		}
	}

	b, err := base58.Decode(s)
	if err != nil || len(b) != util.Uint256Size {
		return util.Uint256{}, fmt.Errorf("%w: %q", ErrInvalidToken, s)
	}

	return util.Uint256DecodeBytesBE(b)
}

// Build returns the claim link for the frontend at base.
func Build(base string, h util.Uint256) (string, error) {
	return build(base, tokenParam, Token(h))
}

// BuildCompact is like Build but encodes the token in base58.
func BuildCompact(base string, h util.Uint256) (string, error) {
	return build(base, compactParam, CompactToken(h))
}

func build(base, param, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base URL %q must be absolute", base)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + claimPath
	u.RawQuery = url.Values{param: []string{token}}.Encode()
	u.Fragment = ""

	return u.String(), nil
}

// Parse extracts the claim hash from a link of either form. A bare token is
// accepted as well.
func Parse(link string) (util.Uint256, error) {
	link = strings.TrimSpace(link)
	if !strings.Contains(link, "?") {
		return ParseToken(link)
	}

	u, err := url.Parse(link)
	if err != nil {
		return util.Uint256{}, fmt.Errorf("parse claim link: %w", err)
	}

	q := u.Query()
	if v := q.Get(tokenParam); v != "" {
		return ParseToken(v)
	}
	if v := q.Get(compactParam); v != "" {
		return ParseToken(v)
	}

	return util.Uint256{}, ErrMissingToken
}

// EncodeQR renders link as a PNG QR code of size x size pixels.
func EncodeQR(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	return qrcode.Encode(link, qrcode.Medium, size)
}

// WriteQR writes link as a PNG QR code to w.
func WriteQR(w io.Writer, link string, size int) error {
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("encode QR: %w", err)
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	return q.Write(size, w)
}

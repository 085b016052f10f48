// Package config holds presencectl settings.
//
// Settings are read from a YAML file and then overridden by PRESENCE_*
// environment variables, e.g. PRESENCE_RPC_ENDPOINT or
// PRESENCE_ROLES_CONTRACT.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables overriding the file.
const EnvPrefix = "presence"

const (
	DefaultRPCEndpoint  = "http://localhost:30333"
	DefaultContractsDir = "build"
	DefaultClaimBaseURL = "http://localhost:5173"
	DefaultTimeout      = time.Minute
	DefaultLogLevel     = "info"
)

var (
	errMissingRPCEndpoint = errors.New("RPC endpoint is not set")
	errInvalidTimeout     = errors.New("timeout must be positive")
	errMissingContract    = errors.New("contract address is not set")
)

// Config is the presencectl configuration.
type Config struct {
	RPCEndpoint string `yaml:"rpcEndpoint" envconfig:"RPC_ENDPOINT"`
	// Wallet is a path to NEP-6 wallet file.
	Wallet   string `yaml:"wallet"`
	Account  string `yaml:"account"`
	Password string `yaml:"password"`

	// Contracts are addresses in LE hex or Neo address form.
	RolesContract    string `yaml:"rolesContract"    split_words:"true"`
	PresenceContract string `yaml:"presenceContract" split_words:"true"`

	ContractsDir string        `yaml:"contractsDir" split_words:"true"`
	ClaimBaseURL string        `yaml:"claimBaseURL" envconfig:"CLAIM_BASE_URL"`
	Timeout      time.Duration `yaml:"timeout"`
	LogLevel     string        `yaml:"logLevel"     split_words:"true"`
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		RPCEndpoint:  DefaultRPCEndpoint,
		ContractsDir: DefaultContractsDir,
		ClaimBaseURL: DefaultClaimBaseURL,
		Timeout:      DefaultTimeout,
		LogLevel:     DefaultLogLevel,
	}
}

// Load reads the configuration file (if path is not empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		err = yaml.Unmarshal(buf, cfg)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	err := envconfig.Process(EnvPrefix, cfg)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.RPCEndpoint == "" {
		return errMissingRPCEndpoint
	}
	if c.Timeout <= 0 {
		return errInvalidTimeout
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() (zapcore.Level, error) {
	var lvl zapcore.Level
	err := lvl.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// RolesHash returns the Roles contract address.
func (c *Config) RolesHash() (util.Uint160, error) {
	return parseContract("roles", c.RolesContract)
}

// PresenceHash returns the Presence contract address.
func (c *Config) PresenceHash() (util.Uint160, error) {
	return parseContract("presence", c.PresenceContract)
}

// ParseAddress decodes an account or contract address given either as a
// Neo address or as LE hex script hash.
func ParseAddress(s string) (util.Uint160, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s) == 2*util.Uint160Size {
		return util.Uint160DecodeStringLE(s)
	}
	return address.StringToUint160(s)
}

func parseContract(name, s string) (util.Uint160, error) {
	if s == "" {
		return util.Uint160{}, fmt.Errorf("%s: %w", name, errMissingContract)
	}
	h, err := ParseAddress(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid %s contract address: %w", name, err)
	}
	return h, nil
}

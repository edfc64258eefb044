package config

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"onchainjanken/internal/match"
	"onchainjanken/internal/state"
	"onchainjanken/internal/types"
)

const (
	EnvPrefix      = "JANKEN"
	configDirName  = "config"
	configFileName = "app.toml"
	dataDirName    = "data"

	LogFormatJSON  = "json"
	LogFormatPlain = "plain"
)

type Config struct {
	Home      string        `mapstructure:"home"`
	LogLevel  string        `mapstructure:"log_level"`
	LogFormat string        `mapstructure:"log_format"`
	DBBackend string        `mapstructure:"db_backend"`
	ABCI      ABCIConfig    `mapstructure:"abci"`
	Genesis   GenesisConfig `mapstructure:"genesis"`
}

type ABCIConfig struct {
	Addr      string `mapstructure:"addr"`
	Transport string `mapstructure:"transport"` // socket|grpc
}

// GenesisConfig seeds the state of a fresh chain. It is ignored once the db
// holds committed state.
type GenesisConfig struct {
	Admin       string `mapstructure:"admin"`
	AdminPubKey string `mapstructure:"admin_pub_key"` // hex ed25519 public key
	Context     string `mapstructure:"context"`
	MinBet      uint64 `mapstructure:"min_bet"`
	TimeoutSecs uint64 `mapstructure:"default_timeout_secs"`
	TokenName   string `mapstructure:"token_name"`
	TokenSymbol string `mapstructure:"token_symbol"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:  zerolog.InfoLevel.String(),
		LogFormat: LogFormatJSON,
		DBBackend: string(dbm.GoLevelDBBackend),
		ABCI: ABCIConfig{
			Addr:      "tcp://127.0.0.1:26658",
			Transport: "socket",
		},
		Genesis: GenesisConfig{
			Context:     types.DefaultContext,
			MinBet:      match.DefaultMinBet,
			TimeoutSecs: match.DefaultTimeoutSecs,
			TokenName:   "JankenToken",
			TokenSymbol: "JKT",
		},
	}
}

func (c Config) Validate() error {
	if c.Home == "" {
		return fmt.Errorf("home must be set")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.LogFormat {
	case LogFormatJSON, LogFormatPlain:
	default:
		return fmt.Errorf("log_format must be %q or %q", LogFormatJSON, LogFormatPlain)
	}
	switch dbm.BackendType(c.DBBackend) {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
	default:
		return fmt.Errorf("unsupported db_backend %q", c.DBBackend)
	}
	if c.ABCI.Addr == "" {
		return fmt.Errorf("abci.addr must be set")
	}
	switch c.ABCI.Transport {
	case "socket", "grpc":
	default:
		return fmt.Errorf("abci.transport must be socket or grpc")
	}
	if err := c.GenesisParams().Validate(); err != nil {
		return fmt.Errorf("genesis: %w", err)
	}
	if _, err := c.adminPubKey(); err != nil {
		return fmt.Errorf("genesis: %w", err)
	}
	return nil
}

func (c Config) adminPubKey() ([]byte, error) {
	pub, err := hex.DecodeString(strings.TrimPrefix(c.Genesis.AdminPubKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("admin_pub_key: %w", err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("admin_pub_key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
	return pub, nil
}

func (c Config) GenesisParams() match.Params {
	return match.Params{
		MinBet:      c.Genesis.MinBet,
		TimeoutSecs: c.Genesis.TimeoutSecs,
		Admin:       c.Genesis.Admin,
	}
}

func (c Config) GenesisState() (state.Genesis, error) {
	pub, err := c.adminPubKey()
	if err != nil {
		return state.Genesis{}, err
	}
	return state.Genesis{
		Admin:       c.Genesis.Admin,
		AdminPubKey: pub,
		Context:     c.Genesis.Context,
		MinBet:      c.Genesis.MinBet,
		TimeoutSecs: c.Genesis.TimeoutSecs,
		TokenName:   c.Genesis.TokenName,
		TokenSymbol: c.Genesis.TokenSymbol,
	}, nil
}

func (c Config) ConfigFile() string { return filepath.Join(c.Home, configDirName, configFileName) }

func (c Config) DataDir() string { return filepath.Join(c.Home, dataDirName) }

// SetDefaults registers every key so env vars and flags bind to them.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("db_backend", d.DBBackend)
	v.SetDefault("abci.addr", d.ABCI.Addr)
	v.SetDefault("abci.transport", d.ABCI.Transport)
	v.SetDefault("genesis.admin", d.Genesis.Admin)
	v.SetDefault("genesis.admin_pub_key", d.Genesis.AdminPubKey)
	v.SetDefault("genesis.context", d.Genesis.Context)
	v.SetDefault("genesis.min_bet", d.Genesis.MinBet)
	v.SetDefault("genesis.default_timeout_secs", d.Genesis.TimeoutSecs)
	v.SetDefault("genesis.token_name", d.Genesis.TokenName)
	v.SetDefault("genesis.token_symbol", d.Genesis.TokenSymbol)
}

// Load reads <home>/config/app.toml when present, then JANKEN_* env vars and
// whatever flags were bound on v.
func Load(v *viper.Viper, home string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Config{Home: home}
	path := cfg.ConfigFile()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("stat config %s: %w", path, err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Home = home
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WriteDefault writes a default app.toml under home with the admin identity
// filled in.
func WriteDefault(home, admin, adminPubKey string, overwrite bool) (string, error) {
	cfg := Config{Home: home}
	cfg.Genesis.AdminPubKey = adminPubKey
	if _, err := cfg.adminPubKey(); err != nil {
		return "", err
	}
	path := cfg.ConfigFile()
	if _, err := os.Stat(path); err == nil && !overwrite {
		return "", fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("mkdir config: %w", err)
	}
	v := viper.New()
	SetDefaults(v)
	v.Set("genesis.admin", admin)
	v.Set("genesis.admin_pub_key", adminPubKey)
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

func NewLogger(c Config, w io.Writer) (log.Logger, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	opts := []log.Option{log.LevelOption(lvl)}
	if c.LogFormat == LogFormatJSON {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...), nil
}

func OpenDB(c Config) (dbm.DB, error) {
	db, err := dbm.NewDB("janken", dbm.BackendType(c.DBBackend), c.DataDir())
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", c.DBBackend, err)
	}
	return db, nil
}

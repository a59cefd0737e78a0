package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nspcc-dev/soroban-go/pkg/config/netmode"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/waiter"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the default path to the config directory.
const DefaultConfigPath = "./config"

// Version is the version of the client, set at build time.
var Version string

type (
	// Config is the top level client configuration.
	Config struct {
		Network     Network      `yaml:"Network"`
		RPC         RPC          `yaml:"RPC"`
		Transaction Transaction  `yaml:"Transaction"`
		Budget      Budget       `yaml:"Budget"`
		Logger      Logger       `yaml:"Logger"`
		Prometheus  BasicService `yaml:"Prometheus"`
		Pprof       BasicService `yaml:"Pprof"`
	}

	// BasicService is a configuration of an HTTP service that can be
	// enabled.
	BasicService struct {
		Enabled bool   `yaml:"Enabled"`
		Address string `yaml:"Address"`
	}

	// Network selects the network transactions are made for. Passphrase
	// takes precedence over Name, if neither is set the RPC node network
	// is used.
	Network struct {
		Name       netmode.Mode `yaml:"Name"`
		Passphrase string       `yaml:"Passphrase"`
	}

	// RPC is the Soroban RPC node connection configuration.
	RPC struct {
		Endpoint          string        `yaml:"Endpoint"`
		FriendbotURL      string        `yaml:"FriendbotURL"`
		DialTimeout       time.Duration `yaml:"DialTimeout"`
		RequestTimeout    time.Duration `yaml:"RequestTimeout"`
		InitTimeout       time.Duration `yaml:"InitTimeout"`
		MaxConnsPerHost   int           `yaml:"MaxConnsPerHost"`
		RequestsPerSecond int           `yaml:"RequestsPerSecond"`
		CacheSize         int           `yaml:"CacheSize"`
	}

	// Transaction configures fees, deadlines and retries of state-changing
	// calls.
	Transaction struct {
		BaseFee      int64         `yaml:"BaseFee"`
		MaxFee       int64         `yaml:"MaxFee"`
		Timeout      time.Duration `yaml:"Timeout"`
		Attempts     int           `yaml:"Attempts"`
		PollInterval time.Duration `yaml:"PollInterval"`
		PollAttempts int           `yaml:"PollAttempts"`
		PollRetries  int           `yaml:"PollRetries"`
	}

	// Budget configures resource consumption recording, empty paths
	// disable the respective sinks.
	Budget struct {
		File string `yaml:"File"`
		DB   string `yaml:"DB"`
	}

	// Logger configures logging.
	Logger struct {
		Level    string `yaml:"Level"`
		Encoding string `yaml:"Encoding"`
		Path     string `yaml:"Path"`
	}
)

// Default returns the configuration with default values.
func Default() Config {
	return Config{
		RPC: RPC{
			DialTimeout:    5 * time.Second,
			RequestTimeout: 30 * time.Second,
			InitTimeout:    30 * time.Second,
		},
		Transaction: Transaction{
			BaseFee:      actor.DefaultBaseFee,
			Timeout:      5 * time.Minute,
			Attempts:     actor.DefaultAttempts,
			PollInterval: waiter.DefaultPollInterval,
			PollAttempts: waiter.DefaultPollAttempts,
			PollRetries:  waiter.DefaultPollRetryCount,
		},
		Logger: Logger{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Load reads the configuration of the given network from the
// soroban.<net>.yml file of the config directory.
func Load(path string, net netmode.Mode) (Config, error) {
	return LoadFile(fmt.Sprintf("%s/soroban.%s.yml", path, net))
}

// LoadFile reads the configuration file, values missing in it are set to the
// defaults.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	cfg := Default()
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.Network.Name != "" && c.Network.Passphrase == "" {
		if _, err := c.Network.Name.Passphrase(); err != nil {
			return err
		}
	}
	if c.Transaction.MaxFee < 0 {
		return errors.New("negative MaxFee")
	}
	if c.Transaction.MaxFee > 0 && c.Transaction.MaxFee < c.Transaction.BaseFee {
		return fmt.Errorf("MaxFee %d is lower than BaseFee %d", c.Transaction.MaxFee, c.Transaction.BaseFee)
	}
	for name, s := range map[string]BasicService{"Prometheus": c.Prometheus, "Pprof": c.Pprof} {
		if s.Enabled && s.Address == "" {
			return fmt.Errorf("%s is enabled, but no address is given", name)
		}
	}
	switch c.Logger.Encoding {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log encoding %q", c.Logger.Encoding)
	}
	return nil
}

// EffectivePassphrase returns the configured network passphrase, empty
// string means the RPC node network is to be used.
func (n Network) EffectivePassphrase() string {
	if n.Passphrase != "" {
		return n.Passphrase
	}
	p, _ := n.Name.Passphrase()
	return p
}

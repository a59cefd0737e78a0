/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nspcc-dev/soroban-go/cli/input"
	"github.com/nspcc-dev/soroban-go/pkg/budget"
	"github.com/nspcc-dev/soroban-go/pkg/config"
	"github.com/nspcc-dev/soroban-go/pkg/config/netmode"
	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/io"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/soroban-go/pkg/services/metrics"
	"github.com/nspcc-dev/soroban-go/pkg/wallet"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultTimeout is the default timeout used for RPC requests.
	DefaultTimeout = 10 * time.Second
	// DefaultAwaitableTimeout is the default timeout used for commands that
	// submit transactions and wait for their results.
	DefaultAwaitableTimeout = 2 * time.Minute
)

// RPCEndpointFlag is a long flag name for an RPC endpoint. It can be used to
// check for flag presence in the context.
const RPCEndpointFlag = "rpc-endpoint"

// RPC is a set of flags used for RPC connections (endpoint and timeout).
var RPC = []cli.Flag{
	cli.StringFlag{
		Name:   RPCEndpointFlag + ", r",
		Usage:  "Soroban RPC node address",
		EnvVar: "SOROBAN_RPC_URL",
	},
	cli.DurationFlag{
		Name:  "timeout, s",
		Usage: "Timeout for the operation",
	},
}

// Network is a set of flags for choosing the network configuration.
var Network = []cli.Flag{
	cli.BoolFlag{Name: "testnet, t", Usage: "use testnet network configuration (if --config-file option is not specified)"},
	cli.BoolFlag{Name: "futurenet", Usage: "use futurenet network configuration (if --config-file option is not specified)"},
	cli.BoolFlag{Name: "mainnet, m", Usage: "use mainnet network configuration (if --config-file option is not specified)"},
	cli.BoolFlag{Name: "standalone", Usage: "use standalone network configuration (if --config-file option is not specified)"},
}

// Config is a set of flags for commands that use configuration files.
var Config = []cli.Flag{
	cli.StringFlag{
		Name:  "config-path",
		Usage: "path to directory with per-network configuration files (may be overridden by --config-file option for the configuration file)",
	},
	cli.StringFlag{
		Name:  "config-file, config",
		Usage: "path to the configuration file (overrides --config-path option)",
	},
}

// Debug is a flag for commands that allow debug logging.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (overrides configuration)",
}

// Signer is a set of flags used to get the transaction signing key.
var Signer = []cli.Flag{
	cli.StringFlag{
		Name:  "wallet, w",
		Usage: "wallet to use to get the key for transaction signing; conflicts with --seed flag",
	},
	cli.StringFlag{
		Name:  "address, a",
		Usage: "address of the wallet account to use (default one if not specified)",
	},
	cli.StringFlag{
		Name:   "seed",
		Usage:  "secret seed (S...) to sign transactions with, '-' to enter it interactively; conflicts with --wallet flag",
		EnvVar: "SOROBAN_SECRET_SEED",
	},
}

// Transaction is a set of flags tuning state-changing calls.
var Transaction = []cli.Flag{
	cli.IntFlag{
		Name:  "attempts",
		Usage: "number of submission attempts made for transient failures",
	},
	cli.Int64Flag{
		Name:  "fee",
		Usage: "inclusion fee in stroops added to the resource fee",
	},
	cli.Int64Flag{
		Name:  "max-fee",
		Usage: "maximum total transaction fee in stroops",
	},
}

// Budget is a set of flags for resource consumption recording.
var Budget = []cli.Flag{
	cli.StringFlag{
		Name:  "budget-file",
		Usage: "append resource consumption snapshots to this NDJSON file",
	},
	cli.StringFlag{
		Name:  "budget-db",
		Usage: "store resource consumption snapshots in this database",
	},
	cli.StringFlag{
		Name:  "label",
		Usage: "label of resource consumption snapshots (contract method by default)",
	},
}

// Metrics is a set of flags enabling metrics services.
var Metrics = []cli.Flag{
	cli.StringFlag{
		Name:  "metrics",
		Usage: "serve Prometheus metrics on the given address while the command runs",
	},
	cli.StringFlag{
		Name:  "pprof",
		Usage: "serve pprof profiles on the given address while the command runs",
	},
}

var (
	errNoEndpoint        = errors.New("no RPC endpoint specified, use option '--" + RPCEndpointFlag + "' or '-r'")
	errNoSigner          = errors.New("no signer specified, use '--wallet' or '--seed' flag")
	errConflictingSigner = errors.New("--wallet flag conflicts with --seed flag, please, provide one of them")
)

// GetNetwork examines Context's flags and returns the network selected by
// them, an empty Mode is returned if no flags are given.
func GetNetwork(ctx *cli.Context) netmode.Mode {
	var net netmode.Mode
	for _, m := range []netmode.Mode{netmode.TestNet, netmode.FutureNet, netmode.MainNet, netmode.Standalone} {
		if ctx.Bool(string(m)) {
			net = m
		}
	}
	return net
}

// GetTimeoutContext returns a context.Context with the default or a
// user-set timeout.
func GetTimeoutContext(ctx *cli.Context, def time.Duration) (context.Context, func()) {
	dur := ctx.Duration("timeout")
	if dur == 0 {
		dur = def
	}
	return context.WithTimeout(context.Background(), dur)
}

// GetConfigFromContext loads the configuration selected by the config and
// network flags (defaults are used if there is none) and applies the
// overrides given by other flags.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	var (
		cfg = config.Default()
		err error
	)
	if configFile := ctx.String("config-file"); configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else if net := GetNetwork(ctx); net != "" {
		var configPath = config.DefaultConfigPath
		if argCp := ctx.String("config-path"); argCp != "" {
			configPath = argCp
		}
		cfg, err = config.Load(configPath, net)
	}
	if err != nil {
		return config.Config{}, err
	}

	if s := ctx.String(RPCEndpointFlag); s != "" {
		cfg.RPC.Endpoint = s
	}
	if ctx.IsSet("attempts") {
		cfg.Transaction.Attempts = ctx.Int("attempts")
	}
	if ctx.IsSet("fee") {
		cfg.Transaction.BaseFee = ctx.Int64("fee")
	}
	if ctx.IsSet("max-fee") {
		cfg.Transaction.MaxFee = ctx.Int64("max-fee")
	}
	if s := ctx.String("budget-file"); s != "" {
		cfg.Budget.File = s
	}
	if s := ctx.String("budget-db"); s != "" {
		cfg.Budget.DB = s
	}
	if s := ctx.String("metrics"); s != "" {
		cfg.Prometheus = config.BasicService{Enabled: true, Address: s}
	}
	if s := ctx.String("pprof"); s != "" {
		cfg.Pprof = config.BasicService{Enabled: true, Address: s}
	}
	if ctx.Bool("debug") {
		cfg.Logger.Level = zapcore.DebugLevel.String()
	}
	return cfg, cfg.Validate()
}

// HandleLoggingParams creates the logger from the configuration. If a log
// path is configured, the directory for it is created.
func HandleLoggingParams(cfg config.Logger) (*zap.Logger, *zap.AtomicLevel, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(cfg.Level) > 0 {
		level, err = zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log setting: %w", err)
		}
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	if cfg.Encoding != "" {
		cc.Encoding = cfg.Encoding
	}
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil
	cc.OutputPaths = []string{"stderr"}

	if logPath := cfg.Path; logPath != "" {
		if err := io.MakeDirForFile(logPath, "logger"); err != nil {
			return nil, nil, err
		}
		cc.OutputPaths = []string{logPath}
	}

	log, err := cc.Build()
	return log, &cc.Level, err
}

// GetRPCClient returns an initialized RPC client for the configuration. The
// node network is checked against the configured one.
func GetRPCClient(gctx context.Context, cfg config.Config) (*rpcclient.Client, cli.ExitCoder) {
	if len(cfg.RPC.Endpoint) == 0 {
		return nil, cli.NewExitError(errNoEndpoint, 1)
	}
	c, err := rpcclient.New(gctx, cfg.RPC.Endpoint, cfg.RPC.ClientOptions())
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	err = c.Init(gctx)
	if err != nil {
		c.Close()
		return nil, cli.NewExitError(err, 1)
	}
	if expected := cfg.Network.EffectivePassphrase(); expected != "" {
		p, err := c.Passphrase()
		if err != nil {
			c.Close()
			return nil, cli.NewExitError(err, 1)
		}
		if p != expected {
			c.Close()
			return nil, cli.NewExitError(fmt.Errorf("RPC node network %q doesn't match configured %q", p, expected), 1)
		}
	}
	return c, nil
}

// GetRPCWithActor returns an RPC client and Actor for the configuration
// signing transactions with the key given in the context.
func GetRPCWithActor(gctx context.Context, ctx *cli.Context, cfg config.Config, log *zap.Logger) (*rpcclient.Client, *actor.Actor, cli.ExitCoder) {
	key, err := GetSigner(ctx)
	if err != nil {
		return nil, nil, cli.NewExitError(err, 1)
	}
	c, exitErr := GetRPCClient(gctx, cfg)
	if exitErr != nil {
		return nil, nil, exitErr
	}
	opts := cfg.Transaction.ActorOptions()
	opts.Logger = log
	a, err := actor.New(c, key, opts)
	if err != nil {
		c.Close()
		return nil, nil, cli.NewExitError(fmt.Errorf("failed to create Actor: %w", err), 1)
	}
	return c, a, nil
}

// GetSigner returns the signing key given by the --seed flag or the wallet
// account selected by --wallet and --address flags. Passwords and seeds are
// requested from the user when needed.
func GetSigner(ctx *cli.Context) (*keys.PrivateKey, error) {
	var (
		wPath = ctx.String("wallet")
		seed  = ctx.String("seed")
	)
	switch {
	case wPath != "" && seed != "":
		return nil, errConflictingSigner
	case seed == "-":
		s, err := input.ReadPassword("Enter secret seed > ")
		if err != nil {
			return nil, fmt.Errorf("error reading seed: %w", err)
		}
		return keys.NewPrivateKeyFromSeed(strings.TrimSpace(s))
	case seed != "":
		return keys.NewPrivateKeyFromSeed(seed)
	case wPath == "":
		return nil, errNoSigner
	}
	wall, err := wallet.NewWalletFromFile(wPath)
	if err != nil {
		return nil, err
	}
	acc, err := GetUnlockedAccount(wall, ctx.String("address"), nil)
	if err != nil {
		return nil, err
	}
	return acc.PrivateKey(), nil
}

// GetUnlockedAccount returns the account with the given address (or the
// default one if the address is empty) from the wallet and decrypts it with
// pass. If the password is not given, then it is requested from the user.
func GetUnlockedAccount(wall *wallet.Wallet, addr string, pass *string) (*wallet.Account, error) {
	var acc *wallet.Account
	if addr == "" {
		acc = wall.GetDefaultAccount()
		if acc == nil {
			return nil, errors.New("wallet has no accounts")
		}
	} else {
		acc = wall.GetAccount(addr)
		if acc == nil {
			return nil, fmt.Errorf("wallet contains no account for '%s'", addr)
		}
	}
	if acc.CanSign() {
		return acc, nil
	}
	if pass == nil {
		rawPass, err := input.ReadPassword(fmt.Sprintf("Enter account %s password > ", acc.Address))
		if err != nil {
			return nil, fmt.Errorf("error reading password: %w", err)
		}
		trimmed := strings.TrimRight(rawPass, "\n")
		pass = &trimmed
	}
	err := acc.Decrypt(*pass, wall.Scrypt)
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// GetRecorder returns the budget recorder for the configuration along with
// the function releasing its resources.
func GetRecorder(cfg config.Budget) (budget.Recorder, func(), error) {
	var (
		recs    []budget.Recorder
		closers []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}
	if cfg.File != "" {
		f, err := budget.NewFileRecorder(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		recs = append(recs, f)
		closers = append(closers, f.Close)
	}
	if cfg.DB != "" {
		db, err := budget.NewBoltRecorder(cfg.DB)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		recs = append(recs, db)
		closers = append(closers, db.Close)
	}
	if len(recs) == 0 {
		return budget.Nop, func() {}, nil
	}
	return budget.Multi(recs...), closeAll, nil
}

// StartServices starts the metrics services enabled in the configuration and
// returns the function stopping them.
func StartServices(cfg config.Config, log *zap.Logger) (func(), error) {
	var started []*metrics.Service
	stop := func() {
		for _, s := range started {
			s.ShutDown()
		}
	}
	for _, s := range []*metrics.Service{
		metrics.NewPrometheusService(cfg.Prometheus, log),
		metrics.NewPprofService(cfg.Pprof, log),
	} {
		if err := s.Start(); err != nil {
			stop()
			return nil, err
		}
		started = append(started, s)
	}
	return stop, nil
}

// Setup loads the configuration, creates the logger and starts metrics
// services, the returned function must be called when the command is done.
func Setup(ctx *cli.Context) (config.Config, *zap.Logger, func(), cli.ExitCoder) {
	cfg, err := GetConfigFromContext(ctx)
	if err != nil {
		return config.Config{}, nil, nil, cli.NewExitError(err, 1)
	}
	log, _, err := HandleLoggingParams(cfg.Logger)
	if err != nil {
		return config.Config{}, nil, nil, cli.NewExitError(err, 1)
	}
	stop, err := StartServices(cfg, log)
	if err != nil {
		_ = log.Sync()
		return config.Config{}, nil, nil, cli.NewExitError(fmt.Errorf("failed to start services: %w", err), 1)
	}
	return cfg, log, func() {
		stop()
		_ = log.Sync()
	}, nil
}

// GetInvoker returns an Invoker using the given source account address. A
// random source is used if the address is empty.
func GetInvoker(c *rpcclient.Client, source string) (*invoker.Invoker, error) {
	if source == "" {
		k, err := keys.NewPrivateKey()
		if err != nil {
			return nil, err
		}
		return invoker.New(c, k.PublicKey()), nil
	}
	pub, err := keys.NewPublicKeyFromAddress(source)
	if err != nil {
		return nil, fmt.Errorf("invalid source: %w", err)
	}
	return invoker.New(c, pub), nil
}

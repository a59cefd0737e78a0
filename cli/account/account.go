package account

import (
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/soroban-go/cli/options"
	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// NewCommands returns 'account' command.
func NewCommands() []cli.Command {
	flags := append(append([]cli.Flag{options.Debug}, options.RPC...), options.Network...)
	flags = append(flags, options.Config...)
	return []cli.Command{{
		Name:  "account",
		Usage: "work with network accounts",
		Subcommands: []cli.Command{
			{
				Name:      "register",
				Usage:     "create and fund the account on a test network via friendbot",
				UsageText: "soroban-go account register -r endpoint <address>",
				Action:    register,
				Flags:     flags,
			},
			{
				Name:      "show",
				Usage:     "print account sequence and balance",
				UsageText: "soroban-go account show -r endpoint <address>",
				Action:    show,
				Flags:     flags,
			},
		},
	}}
}

func getAddress(ctx *cli.Context) (string, error) {
	args := ctx.Args()
	if len(args) != 1 {
		return "", fmt.Errorf("account address is required")
	}
	if _, err := keys.NewPublicKeyFromAddress(args[0]); err != nil {
		return "", err
	}
	return args[0], nil
}

func register(ctx *cli.Context) error {
	addr, err := getAddress(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	cfg, log, done, exitErr := options.Setup(ctx)
	if exitErr != nil {
		return exitErr
	}
	defer done()

	gctx, cancel := options.GetTimeoutContext(ctx, options.DefaultAwaitableTimeout)
	defer cancel()
	c, exitErr := options.GetRPCClient(gctx, cfg)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	if err := c.RequestAirdrop(gctx, addr); err != nil {
		return cli.NewExitError(fmt.Errorf("registration failed: %w", err), 1)
	}
	log.Info("account registered", zap.String("account", addr))
	fmt.Fprintln(ctx.App.Writer, addr)
	return nil
}

func show(ctx *cli.Context) error {
	addr, err := getAddress(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	cfg, _, done, exitErr := options.Setup(ctx)
	if exitErr != nil {
		return exitErr
	}
	defer done()

	gctx, cancel := options.GetTimeoutContext(ctx, options.DefaultTimeout)
	defer cancel()
	c, exitErr := options.GetRPCClient(gctx, cfg)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	acc, err := c.GetAccount(gctx, addr)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	b, err := json.MarshalIndent(acc, "", "  ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(b))
	return nil
}

package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/soroban-go/cli/input"
	"github.com/nspcc-dev/soroban-go/pkg/wallet"
	"github.com/urfave/cli"
)

var errNoPath = errors.New("wallet path is mandatory and should be passed using (--wallet, -w) flags")

var (
	walletPathFlag = cli.StringFlag{
		Name:  "wallet, w",
		Usage: "path to the wallet file",
	}
	labelFlag = cli.StringFlag{
		Name:  "label, l",
		Usage: "account label",
	}
)

// NewCommands returns 'wallet' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "wallet",
		Usage: "manage encrypted signing keys",
		Subcommands: []cli.Command{
			{
				Name:      "init",
				Usage:     "create a new wallet",
				UsageText: "soroban-go wallet init -w wallet [--account]",
				Action:    createWallet,
				Flags: []cli.Flag{
					walletPathFlag,
					cli.BoolFlag{
						Name:  "account, a",
						Usage: "create a new account",
					},
				},
			},
			{
				Name:      "create",
				Usage:     "add a new random account to the wallet",
				UsageText: "soroban-go wallet create -w wallet [-l label]",
				Action:    addAccount,
				Flags:     []cli.Flag{walletPathFlag, labelFlag},
			},
			{
				Name:      "import",
				Usage:     "import the secret seed into the wallet",
				UsageText: "soroban-go wallet import -w wallet [-l label]",
				Action:    importSeed,
				Flags:     []cli.Flag{walletPathFlag, labelFlag},
			},
			{
				Name:      "list",
				Usage:     "list wallet accounts",
				UsageText: "soroban-go wallet list -w wallet",
				Action:    listAccounts,
				Flags:     []cli.Flag{walletPathFlag},
			},
		},
	}}
}

func createWallet(ctx *cli.Context) error {
	path := ctx.String("wallet")
	if path == "" {
		return cli.NewExitError(errNoPath, 1)
	}
	wall, err := wallet.NewWallet(path)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if ctx.Bool("account") {
		if err := createAccount(ctx, wall, ""); err != nil {
			return cli.NewExitError(err, 1)
		}
	}
	fmt.Fprintf(ctx.App.Writer, "wallet successfully created, file location is %s\n", wall.Path())
	return nil
}

func openWallet(ctx *cli.Context) (*wallet.Wallet, error) {
	path := ctx.String("wallet")
	if path == "" {
		return nil, errNoPath
	}
	return wallet.NewWalletFromFile(path)
}

func addAccount(ctx *cli.Context) error {
	wall, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := createAccount(ctx, wall, ctx.String("label")); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func readLabel(ctx *cli.Context, label string) (string, error) {
	if label != "" {
		return label, nil
	}
	return input.ReadLine(ctx.App.Writer, "Enter the name of the account > ")
}

func createAccount(ctx *cli.Context, wall *wallet.Wallet, label string) error {
	label, err := readLabel(ctx, label)
	if err != nil {
		return err
	}
	pass, err := input.ConfirmPassword("Enter passphrase > ")
	if err != nil {
		return err
	}
	acc, err := wall.CreateAccount(label, pass)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, acc.Address)
	return nil
}

func importSeed(ctx *cli.Context) error {
	wall, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	seed, err := input.ReadPassword("Enter secret seed > ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	label, err := readLabel(ctx, ctx.String("label"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	pass, err := input.ConfirmPassword("Enter passphrase > ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	acc, err := wall.ImportAccount(strings.TrimSpace(seed), label, pass)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, acc.Address)
	return nil
}

func listAccounts(ctx *cli.Context) error {
	wall, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	for _, acc := range wall.Accounts {
		var def string
		if acc.Default {
			def = " (default)"
		}
		fmt.Fprintf(ctx.App.Writer, "%s %s%s\n", acc.Address, acc.Label, def)
	}
	return nil
}

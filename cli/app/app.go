package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nspcc-dev/soroban-go/cli/account"
	"github.com/nspcc-dev/soroban-go/cli/budget"
	"github.com/nspcc-dev/soroban-go/cli/contract"
	"github.com/nspcc-dev/soroban-go/cli/value"
	"github.com/nspcc-dev/soroban-go/cli/wallet"
	"github.com/nspcc-dev/soroban-go/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "soroban-go\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a soroban-go instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "soroban-go"
	ctl.Version = config.Version
	ctl.Usage = "Go client for Soroban smart contracts"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, contract.NewCommands()...)
	ctl.Commands = append(ctl.Commands, account.NewCommands()...)
	ctl.Commands = append(ctl.Commands, value.NewCommands()...)
	ctl.Commands = append(ctl.Commands, wallet.NewCommands()...)
	ctl.Commands = append(ctl.Commands, budget.NewCommands()...)
	return ctl
}

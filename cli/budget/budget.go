package budget

import (
	"fmt"
	"text/tabwriter"

	"github.com/nspcc-dev/soroban-go/pkg/budget"
	"github.com/urfave/cli"
)

// NewCommands returns 'budget' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "budget",
		Usage: "inspect recorded resource consumption",
		Subcommands: []cli.Command{
			{
				Name:      "history",
				Usage:     "list snapshots recorded with the given label",
				UsageText: "soroban-go budget history --db path <label>",
				Action:    history,
				Flags: []cli.Flag{
					cli.StringFlag{
						Name:  "db",
						Usage: "path to the budget database",
					},
				},
			},
		},
	}}
}

func history(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 1 {
		return cli.NewExitError("label is required", 1)
	}
	path := ctx.String("db")
	if path == "" {
		return cli.NewExitError("database path is required, use --db flag", 1)
	}
	r, err := budget.NewBoltRecorder(path)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer r.Close()

	h, err := r.History(args[0])
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tMETHOD\tSTATUS\tCPU\tMEM\tREAD\tWRITE\tFOOTPRINT\tFEE")
	for _, s := range h {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d/%d\t%d\n",
			s.Time.Format("2006-01-02T15:04:05Z07:00"), s.Method, s.Status,
			s.CPUInsns, s.MemBytes, s.ReadBytes, s.WriteBytes,
			s.ReadOnlyEntries, s.ReadWriteEntries, s.ResourceFee)
	}
	return w.Flush()
}

package value

import (
	"fmt"

	"github.com/nspcc-dev/soroban-go/cli/cmdargs"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/urfave/cli"
)

// NewCommands returns 'value' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "value",
		Usage: "convert contract values",
		Subcommands: []cli.Command{
			{
				Name:        "encode",
				Usage:       "print base64-encoded XDR of the given values",
				UsageText:   "soroban-go value encode <arg>...",
				Description: cmdargs.ParamsParsingDoc,
				Action:      encode,
				Flags: []cli.Flag{
					cli.BoolFlag{
						Name:  "vec",
						Usage: "encode all values as a single vec",
					},
				},
			},
			{
				Name:      "decode",
				Usage:     "print base64-encoded XDR value as JSON",
				UsageText: "soroban-go value decode [--typed] <base64>",
				Action:    decode,
				Flags: []cli.Flag{
					cli.BoolFlag{
						Name:  "typed",
						Usage: "print JSON with value types",
					},
				},
			},
		},
	}}
}

func encode(ctx *cli.Context) error {
	vs, err := cmdargs.ParseParams(ctx.Args())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if len(vs) == 0 {
		return cli.NewExitError("no values given", 1)
	}
	if ctx.Bool("vec") {
		vs = []scval.Value{scval.NewVec(vs...)}
	}
	for _, v := range vs {
		s, err := scval.ToBase64(v)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		fmt.Fprintln(ctx.App.Writer, s)
	}
	return nil
}

func decode(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 1 {
		return cli.NewExitError("base64-encoded value is required", 1)
	}
	v, err := scval.FromBase64(args[0])
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	var b []byte
	if ctx.Bool("typed") {
		b, err = scval.ToJSONWithTypes(v)
	} else {
		b, err = scval.ToJSON(v)
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(b))
	return nil
}

package contract

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/soroban-go/cli/cmdargs"
	"github.com/nspcc-dev/soroban-go/cli/options"
	"github.com/nspcc-dev/soroban-go/pkg/budget"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// NewCommands returns 'contract' command.
func NewCommands() []cli.Command {
	common := append(append([]cli.Flag{options.Debug}, options.RPC...), options.Network...)
	common = append(common, options.Config...)
	common = append(common, options.Metrics...)

	invokeFlags := append(append([]cli.Flag{}, common...), options.Signer...)
	invokeFlags = append(invokeFlags, options.Transaction...)
	invokeFlags = append(invokeFlags, options.Budget...)

	queryFlags := append([]cli.Flag{
		cli.StringFlag{
			Name:  "source",
			Usage: "source account address used in the simulated transaction",
		},
	}, common...)

	return []cli.Command{{
		Name:  "contract",
		Usage: "call contracts deployed to the network",
		Subcommands: []cli.Command{
			{
				Name:      "invoke",
				Usage:     "invoke a contract method in a transaction",
				UsageText: "soroban-go contract invoke -r endpoint [--seed S... | -w wallet [-a address]] <contract> <method> [<arg>...]",
				Description: `Simulates the call, signs and submits the transaction and waits for its
   result. Transient failures are retried (see --attempts). The result is
   printed as JSON, the command fails unless the call is successful.

` + cmdargs.ParamsParsingDoc,
				Action: invoke,
				Flags:  invokeFlags,
			},
			{
				Name:      "query",
				Usage:     "simulate a contract method call and print the result",
				UsageText: "soroban-go contract query -r endpoint [--source G...] <contract> <method> [<arg>...]",
				Description: `Simulates the call without submitting anything to the network, the
   returned value is printed as JSON.

` + cmdargs.ParamsParsingDoc,
				Action: query,
				Flags:  queryFlags,
			},
			{
				Name:      "info",
				Usage:     "print contract instance information",
				UsageText: "soroban-go contract info -r endpoint <contract>",
				Action:    info,
				Flags:     common,
			},
		},
	}}
}

// callOutput is the JSON representation of SubmissionResult.
type callOutput struct {
	Status      actor.Status         `json:"status"`
	Hash        string               `json:"hash"`
	Contract    string               `json:"contract"`
	Method      string               `json:"method"`
	ReturnValue json.RawMessage      `json:"returnValue,omitempty"`
	Reason      string               `json:"reason,omitempty"`
	Code        string               `json:"code,omitempty"`
	InvokeCode  string               `json:"invokeCode,omitempty"`
	Attempts    int                  `json:"attempts"`
	Ledger      uint32               `json:"ledger,omitempty"`
	FeeCharged  int64                `json:"feeCharged,omitempty"`
	Cost        *result.SimulateCost `json:"cost,omitempty"`
}

func newCallOutput(res *actor.SubmissionResult) (*callOutput, error) {
	out := &callOutput{
		Status:   res.Status,
		Hash:     res.Hash.String(),
		Contract: res.Contract,
		Method:   res.Method,
		Reason:   res.Reason,
		Attempts: res.Attempts,
	}
	if res.Code != 0 {
		out.Code = res.Code.String()
	}
	if res.InvokeCode != 0 {
		out.InvokeCode = res.InvokeCode.String()
	}
	if res.Raw != nil {
		out.Ledger = res.Raw.Ledger
		if r, err := res.Raw.Result(); err == nil && r != nil {
			out.FeeCharged = r.FeeCharged
		}
	}
	if res.Simulation != nil {
		out.Cost = res.Simulation.Cost
	}
	if res.ReturnValue != nil {
		b, err := scval.ToJSON(res.ReturnValue)
		if err != nil {
			return nil, err
		}
		out.ReturnValue = b
	}
	return out, nil
}

func parseCallArgs(ctx *cli.Context) (*scval.Address, string, []any, error) {
	args := ctx.Args()
	if len(args) < 2 {
		return nil, "", nil, errors.New("contract and method are required")
	}
	contract, err := scval.NewAddress(args[0])
	if err != nil {
		return nil, "", nil, err
	}
	if !contract.IsContract() {
		return nil, "", nil, fmt.Errorf("%s is not a contract address", args[0])
	}
	params, err := cmdargs.ParseParams(args[2:])
	if err != nil {
		return nil, "", nil, fmt.Errorf("invalid arguments: %w", err)
	}
	var res = make([]any, len(params))
	for i := range params {
		res[i] = params[i]
	}
	return contract, args[1], res, nil
}

func invoke(ctx *cli.Context) error {
	contract, method, params, err := parseCallArgs(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	cfg, log, done, exitErr := options.Setup(ctx)
	if exitErr != nil {
		return exitErr
	}
	defer done()

	rec, closeRec, err := options.GetRecorder(cfg.Budget)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer closeRec()

	gctx, cancel := options.GetTimeoutContext(ctx, options.DefaultAwaitableTimeout)
	defer cancel()
	c, a, exitErr := options.GetRPCWithActor(gctx, ctx, cfg, log)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	res, err := a.Call(gctx, contract, method, params...)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	label := ctx.String("label")
	if label == "" {
		label = method
	}
	recordBudget(rec, label, res, log)

	out, err := newCallOutput(res)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := printJSON(ctx, out); err != nil {
		return cli.NewExitError(err, 1)
	}
	if res.Status != actor.StatusSuccess {
		return cli.NewExitError(fmt.Sprintf("call %s: %s", res.Status, res.Reason), 1)
	}
	return nil
}

func recordBudget(rec budget.Recorder, label string, res *actor.SubmissionResult, log *zap.Logger) {
	if err := rec.Record(label, res); err != nil {
		log.Warn("failed to record budget snapshot", zap.String("label", label), zap.Error(err))
	}
}

func query(ctx *cli.Context) error {
	contract, method, params, err := parseCallArgs(ctx)
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

	inv, err := options.GetInvoker(c, ctx.String("source"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	v, err := inv.Query(gctx, contract, method, params...)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	b, err := scval.ToJSON(v)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(b))
	return nil
}

type infoOutput struct {
	Contract        string          `json:"contract"`
	Executable      string          `json:"executable"`
	WasmHash        string          `json:"wasmHash,omitempty"`
	LiveUntilLedger uint32          `json:"liveUntilLedger"`
	Storage         json.RawMessage `json:"storage,omitempty"`
}

func info(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 1 {
		return cli.NewExitError("contract address is required", 1)
	}
	contract, err := scval.NewAddress(args[0])
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

	inst, err := c.GetContractInstance(gctx, contract)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	out := infoOutput{
		Contract:        inst.Contract.String(),
		Executable:      inst.Executable.Kind.String(),
		LiveUntilLedger: inst.LiveUntilLedger,
	}
	if inst.Executable.Kind == scval.ExecutableWasm {
		out.WasmHash = inst.Executable.WasmHash.StringBE()
	}
	if inst.Storage != nil {
		out.Storage, err = scval.ToJSON(inst.Storage)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	}
	if err := printJSON(ctx, out); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func printJSON(ctx *cli.Context, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(b))
	return err
}

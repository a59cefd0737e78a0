package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nspcc-dev/soroban-go/cli/app"
	"github.com/nspcc-dev/soroban-go/cli/input"
	"github.com/nspcc-dev/soroban-go/internal/testchain"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"golang.org/x/term"
)

const testAccountBalance = 500_0000000

// executor represents context for a test instance.
// It can be safely used in multiple tests, but not in parallel.
type executor struct {
	// CLI is a cli application to test.
	CLI *cli.App
	// Node is a fake RPC node to query (can be empty).
	Node *testchain.Node
	// Config is the path to the configuration file for Node.
	Config string
	// Out contains command output.
	Out *bytes.Buffer
	// Err contains command errors.
	Err *bytes.Buffer
	// In contains command input.
	In *bytes.Buffer
}

func newExecutor(t *testing.T, needNode bool) *executor {
	e := &executor{
		CLI: app.New(),
		Out: bytes.NewBuffer(nil),
		Err: bytes.NewBuffer(nil),
		In:  bytes.NewBuffer(nil),
	}
	e.CLI.Writer = e.Out
	e.CLI.ErrWriter = e.Err
	if needNode {
		e.Node = testchain.NewNode(t)
		for i := 0; i < testchain.Size(); i++ {
			e.Node.AddAccount(&result.Account{
				ID:       *testchain.PrivateKey(i).PublicKey(),
				Balance:  testAccountBalance,
				Sequence: 100 << 32,
			})
		}
		e.Config = writeNodeConfig(t, e.Node, "")
	}
	t.Cleanup(func() {
		input.Terminal = nil
	})
	return e
}

// writeNodeConfig creates the configuration file for the node with fast
// polling, extra is appended to the file as is.
func writeNodeConfig(t *testing.T, n *testchain.Node, extra string) string {
	cfg := fmt.Sprintf(`Network:
  Name: standalone
RPC:
  Endpoint: %s
  InitTimeout: 5s
Transaction:
  Attempts: 2
  PollInterval: 10ms
  PollAttempts: 5
Logger:
  Level: error
%s`, n.URL, extra)
	p := filepath.Join(t.TempDir(), "soroban.standalone.yml")
	require.NoError(t, os.WriteFile(p, []byte(cfg), 0o644))
	return p
}

func (e *executor) getNextLine(t *testing.T) string {
	line, err := e.Out.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimSuffix(line, "\n")
}

func (e *executor) checkNextLine(t *testing.T, expected string) {
	line := e.getNextLine(t)
	e.checkLine(t, line, expected)
}

func (e *executor) checkLine(t *testing.T, line, expected string) {
	require.Regexp(t, expected, line)
}

func (e *executor) checkEOF(t *testing.T) {
	_, err := e.Out.ReadString('\n')
	require.True(t, errors.Is(err, io.EOF))
}

func setExitFunc() <-chan int {
	ch := make(chan int, 1)
	cli.OsExiter = func(code int) {
		ch <- code
	}
	return ch
}

func checkExit(t *testing.T, ch <-chan int, code int) {
	select {
	case c := <-ch:
		require.Equal(t, code, c)
	default:
		if code != 0 {
			require.Fail(t, "no exit was called")
		}
	}
}

// RunWithError runs command and checks that is exits with error.
func (e *executor) RunWithError(t *testing.T, args ...string) {
	ch := setExitFunc()
	require.Error(t, e.run(args...))
	checkExit(t, ch, 1)
}

// Run runs command and checks that there were no errors.
func (e *executor) Run(t *testing.T, args ...string) {
	ch := setExitFunc()
	require.NoError(t, e.run(args...))
	checkExit(t, ch, 0)
}

func (e *executor) run(args ...string) error {
	e.Out.Reset()
	e.Err.Reset()
	input.Terminal = term.NewTerminal(input.ReadWriter{
		Reader: e.In,
		Writer: io.Discard,
	}, "")
	err := e.CLI.Run(args)
	input.Terminal = nil
	e.In.Reset()
	return err
}

// Command vsock-connect bridges stdin/stdout to an AF_VSOCK stream
// connection until the remote side closes.
//
// Usage: vsock-connect <cid> <port>
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"enclave-helpers/bridge"
	"enclave-helpers/shared"
)

const serviceName = "vsock-connect"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, bridge.Dial))
}

// run bridges until the remote closes and returns the process exit code.
func run(args []string, stdin bridge.Input, stdout, stderr io.Writer, dial bridge.DialFunc) int {
	if err := shared.LoadEnvFile(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		return 1
	}
	logger := shared.NewLoggerFromEnv(serviceName, stderr)
	defer logger.Sync()

	cmd := newRootCmd(logger, stdin, stdout, dial)
	cmd.SetArgs(append([]string{}, args...))

	if err := cmd.Execute(); err != nil {
		logger.Failure(err)
		return 1
	}
	return 0
}

func newRootCmd(logger *shared.Logger, stdin bridge.Input, stdout io.Writer, dial bridge.DialFunc) *cobra.Command {
	var cid, port uint32

	return &cobra.Command{
		Use:   "vsock-connect <cid> <port>",
		Short: "Bridge stdin/stdout to a vsock stream connection",
		// Every argument is positional; "-1" must reach ParseEndpoint, not the flag parser.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Args: func(cmd *cobra.Command, args []string) error {
			var err error
			cid, port, err = bridge.ParseEndpoint(args)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dial(cid, port)
			if err != nil {
				return err
			}
			defer conn.Close()
			logger.DebugIf("Connected", zap.Uint32("cid", cid), zap.Uint32("port", port))

			return bridge.New(stdin, stdout, conn, logger).Run()
		},
	}
}

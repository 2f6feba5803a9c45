// Command nsm-ioctl reads one attestation request from stdin, passes it to
// the NSM device in a single ioctl, and writes the response to stdout.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"enclave-helpers/attest"
	"enclave-helpers/shared"
)

const serviceName = "nsm-ioctl"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one exchange against the fixed device path and returns the
// process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := shared.LoadEnvFile(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		return 1
	}
	logger := shared.NewLoggerFromEnv(serviceName, stderr)
	defer logger.Sync()

	cmd := newRootCmd(attest.NewProxy(attest.DefaultDevicePath, logger))
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)

	if err := cmd.Execute(); err != nil {
		logger.Failure(err)
		return 1
	}
	return 0
}

func newRootCmd(proxy *attest.Proxy) *cobra.Command {
	return &cobra.Command{
		Use:                "nsm-ioctl",
		Short:              "Exchange one attestation request with the NSM device",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return proxy.Run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

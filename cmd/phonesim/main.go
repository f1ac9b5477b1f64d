// Command phonesim plays the companion phone: it pushes preference tuples to a
// running watch over the sync link.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"sparkwatch/internal/buildinfo"
)

const defaultAddr = "127.0.0.1:9844"

var (
	addr     string
	logLevel string
	logger   hclog.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "phonesim",
		Short:        "Send watchface settings to a running sparkwatch",
		Version:      buildinfo.String(),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = hclog.New(&hclog.LoggerOptions{
				Name:       "phonesim",
				Level:      hclog.LevelFromString(logLevel),
				JSONFormat: os.Getenv("SPARK_JSON_LOG") == "1",
				Output:     cmd.ErrOrStderr(),
				TimeFormat: "2006-01-02T15:04:05.000",
			})
		},
	}
	root.PersistentFlags().StringVar(&addr, "addr", defaultAddr, "Watch sync address (UDP)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(newSendCmd(), newTUICmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

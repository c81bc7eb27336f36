package main

import (
	"os"

	"github.com/spf13/cobra"
)

// manifestFlag overrides DISPATCH_MANIFEST when set.
var manifestFlag string

var rootCmd = &cobra.Command{
	Use:   "dispatchd",
	Short: "Request-dispatch daemon",
	Long: `dispatchd accepts one request per TCP connection, routes it by verb and
function name to a registered handler, and writes a single framed response.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if manifestFlag != "" {
			return os.Setenv("DISPATCH_MANIFEST", manifestFlag)
		}
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&manifestFlag, "manifest", "",
		"Path to manifest.toml (default: $DISPATCH_MANIFEST or ./manifest.toml)")
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var functionsJSONFlag bool

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the functions this build registers",
	Long: `List every (verb, function) pair the server would route.

Examples:
  dispatchd functions
  dispatchd functions --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printFunctions(cmd.OutOrStdout(), functionsJSONFlag)
	},
}

func init() {
	functionsCmd.Flags().BoolVar(&functionsJSONFlag, "json", false, "Output as JSON")
	rootCmd.AddCommand(functionsCmd)
}

func printFunctions(w io.Writer, asJSON bool) error {
	fns := Routes().Functions()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(fns)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERB\tFUNCTION")
	for _, f := range fns {
		fmt.Fprintf(tw, "%s\t%s\n", f.Verb, f.Name)
	}
	return tw.Flush()
}

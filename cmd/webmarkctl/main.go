package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/webmark/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "webmarkctl",
	Short: "Webmark admin CLI",
	Long: `webmarkctl operates on the store configured through the WEBMARK_* environment,
the same variables the webmark server reads.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

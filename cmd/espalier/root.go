package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "espalier",
	Short: "Espalier is a hierarchical viewport navigation engine",
	Long:  `Espalier resolves URLs against a route table and drives a multi-phase navigation lifecycle over a tree of routers and viewports.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("routes", "routes.yaml", "Route table file")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}

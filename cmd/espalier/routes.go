package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	fileAdapter "github.com/aretw0/espalier/pkg/adapters/file"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the route tables from the routes file",
	RunE: func(cmd *cobra.Command, args []string) error {
		routesPath, _ := cmd.Flags().GetString("routes")
		registry, err := fileAdapter.New(routesPath)
		if err != nil {
			return err
		}

		tables := registry.Tables()
		names := make([]string, 0, len(tables))
		for name := range tables {
			names = append(names, name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		for _, name := range names {
			fmt.Fprintf(out, "%s:\n", name)
			for _, route := range tables[name] {
				if route.Path == "" {
					fmt.Fprintf(out, "  (viewports) -> %s\n", route.Component)
					continue
				}
				fmt.Fprintf(out, "  %-24s -> %s\n", route.Path, route.Component)
			}
		}
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <component> [key=value ...]",
	Short: "Generate the URL for a component from the route table",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		router, _, err := buildRouter(cmd)
		if err != nil {
			return err
		}

		params := make(map[string]string)
		for _, pair := range args[1:] {
			key, value, ok := splitPair(pair)
			if !ok {
				return fmt.Errorf("invalid parameter %q (expected key=value)", pair)
			}
			params[key] = value
		}

		url, err := router.Generate(cmd.Context(), args[0], params)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), url)
		return nil
	},
}

func splitPair(pair string) (string, string, bool) {
	for i := 0; i < len(pair); i++ {
		if pair[i] == '=' {
			return pair[:i], pair[i+1:], i > 0
		}
	}
	return "", "", false
}

func init() {
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(generateCmd)
}

package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	fileAdapter "github.com/aretw0/espalier/pkg/adapters/file"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

var navigateCmd = &cobra.Command{
	Use:   "navigate <url>",
	Short: "Resolve a URL and print the committed viewport tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		router, registry, err := buildRouter(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := router.RegisterViewport(ctx, &printViewport{
			out:    cmd.OutOrStdout(),
			router: router,
			name:   domain.DefaultViewportName,
		}, domain.DefaultViewportName); err != nil {
			return err
		}

		canonical, err := router.Navigate(ctx, args[0])
		if err != nil {
			if errors.Is(err, domain.ErrNoMatch) {
				if suggester, ok := registry.(ports.Suggester); ok {
					if nearest, found := suggester.Suggest(args[0]); found {
						return fmt.Errorf("%w: %s (did you mean %s?)", domain.ErrNoMatch, args[0], nearest)
					}
				}
			}
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "->", canonical)
		return nil
	},
}

// buildRouter wires a router tree from the --routes file.
func buildRouter(cmd *cobra.Command, opts ...espalier.Option) (*espalier.Router, ports.RouteRegistry, error) {
	routesPath, _ := cmd.Flags().GetString("routes")
	verbose, _ := cmd.Flags().GetBool("verbose")

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	registry, err := fileAdapter.New(routesPath)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]espalier.Option{espalier.WithLogger(logger)}, opts...)
	router, err := espalier.New(registry, identityLoader{}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return router, registry, nil
}

func init() {
	rootCmd.AddCommand(navigateCmd)
}

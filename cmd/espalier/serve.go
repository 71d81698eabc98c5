package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/espalier"
	httpAdapter "github.com/aretw0/espalier/pkg/adapters/http"
	"github.com/aretw0/espalier/pkg/observability"
	"github.com/aretw0/espalier/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the navigation HTTP server",
	Long:  `Serves the navigation engine over a JSON API. The route table file is watched, so edits reconfigure the live router and renavigate it.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")

		metrics, err := observability.NewMetrics(prometheus.DefaultRegisterer)
		if err != nil {
			fmt.Printf("Error registering metrics: %v\n", err)
			os.Exit(1)
		}

		router, registry, err := buildRouter(cmd, espalier.WithLifecycleHooks(metrics.Hooks()))
		if err != nil {
			fmt.Printf("Error initializing router: %v\n", err)
			os.Exit(1)
		}

		// Background registration of the default print viewport keeps the
		// server useful without a UI attached.
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if err := router.RegisterViewport(ctx, &printViewport{
			out:    cmd.OutOrStdout(),
			router: router,
			name:   "default",
		}, "default"); err != nil {
			fmt.Printf("Error registering viewport: %v\n", err)
			os.Exit(1)
		}

		mux := chi.NewRouter()
		mux.Mount("/", httpAdapter.NewHandler(router))
		mux.Handle("/metrics", promhttp.Handler())

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: mux,
		}

		// Route-table hot reload: renavigate after every registry refresh.
		if watcher, ok := registry.(ports.Watchable); ok {
			changes, err := watcher.Watch(ctx)
			if err != nil {
				fmt.Printf("Route table watching unavailable: %v\n", err)
			} else {
				go func() {
					for range changes {
						if err := router.Renavigate(ctx); err != nil {
							fmt.Printf("Renavigation after table change failed: %v\n", err)
						}
					}
				}()
			}
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Espalier Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Espalier Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}

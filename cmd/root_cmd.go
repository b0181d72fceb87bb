// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the fieldcaps version
var Version = "development"

func Prepare() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "fieldcaps",
		Short:        "Field capabilities resolution engine",
		SilenceUsage: true,
		Version:      Version,
	}

	viper.SetEnvPrefix("FIELDCAPS")
	viper.AutomaticEnv()

	// root cmd
	rootCmd.PersistentFlags().StringP("config", "c", "", ".env or .yaml config file to use with fieldcaps if any")
	rootCmd.PersistentFlags().String("log-level", "debug", "log level for the application. One of trace, debug, info, warn, error, fatal, panic")

	// serve cmd
	serveCmd.Flags().String("address", "", "Address for the HTTP server to listen on")
	serveCmd.Flags().String("postgres-url", "", "Postgres URL of the index catalog metadata store")
	serveCmd.Flags().StringP("fixture-file", "f", "", "Path to a YAML fixture file to serve an in-memory index catalog from")
	serveCmd.Flags().Uint("snapshot-workers", 0, "Maximum number of concurrent per-index schema fetches per request")

	for _, flag := range []string{"config", "log-level"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "binding flag %s: %v\n", flag, err)
		}
	}
	for _, flag := range []string{"address", "postgres-url", "fixture-file", "snapshot-workers"} {
		if err := viper.BindPFlag(flag, serveCmd.Flags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "binding flag %s: %v\n", flag, err)
		}
	}

	rootCmd.AddCommand(serveCmd)
	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	cmd := Prepare()
	return cmd.Execute()
}

func withSignalWatcher(fn func(ctx context.Context) error) func(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		<-sigc
		cancel()
	}()

	return func(cmd *cobra.Command, args []string) error {
		defer cancel()
		return fn(ctx)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"neptune/internal/app"
)

func newRootCmd() *cobra.Command {
	var config app.Config

	rootCmd := &cobra.Command{
		Use:   "nepdump [flags] <input-file>",
		Short: "Neptune altimeter log decoder",
		Long: `Decodes a Neptune altimeter data file and prints a report.

Dump types:
  s  jump summary information
  d  jump detail information
  t  profile data, tabular (sub-types: s = spaces instead of tabs, h = no header)
  c  profile data, CSV (sub-types: h = no header)
  p  gnuplot commands (sub-types: a = altitude, t = TAS, s = SAS,
     r = no reset command, p = add pause command)

A jump number of 0 selects every jump in the file.

Example usage:
  nepdump --type p --sub-types atp --location "Skydive City" --jump 812 jumps.nep | gnuplot`,
		Args: func(cmd *cobra.Command, args []string) error {
			if config.ShowVersion {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ShowVersion {
				app.ShowVersion(cmd.OutOrStdout())
				return nil
			}
			config.InputFile = args[0]

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application := app.NewApplication(config)
			return application.Run(ctx, cmd.OutOrStdout())
		},
	}

	rootCmd.Flags().Uint64VarP(&config.JumpNumber, "jump", "j", 0, "Jump number to dump (0 for all)")
	rootCmd.Flags().StringVarP(&config.DumpType, "type", "t", "s", "Dump type: s, d, t, c or p")
	rootCmd.Flags().StringVarP(&config.SubTypes, "sub-types", "s", "", "Sub-types for the dump type")
	rootCmd.Flags().StringVarP(&config.Location, "location", "L", "", "Jump location for plot titles")
	rootCmd.Flags().StringVarP(&config.ConfigFile, "config", "c", "", "YAML settings file (default $NEPTUNE_CONFIG)")
	rootCmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().BoolVar(&config.ShowVersion, "version", false, "Show version information")

	return rootCmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

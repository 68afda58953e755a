// =============================================================================
// Workshop Receipts - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (recibos)
//   ├── issueCmd      (recibos issue)
//   ├── workshopsCmd  (recibos workshops list|add|edit|delete)
//   ├── studentsCmd   (recibos students list|tag)
//   ├── logCmd        (recibos log show|save)
//   ├── folderCmd     (recibos folder init)
//   ├── importCmd     (recibos import workshops|students|log)
//   ├── logoCmd       (recibos logo set|clear|show)
//   └── versionCmd    (recibos version)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/workshop-receipts/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// folderPath overrides the work folder from the configuration.
var folderPath string

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "recibos",
	Short: "Workshop receipts - issue payment receipts and keep the workshop books",

	Long: `recibos issues printable payment receipts for workshops and keeps three
spreadsheets in a work folder up to date: the workshops (talleres.xlsx), the
enrolled students (inscriptos.xlsx) and the payment log (registro_pagos.xlsx).

Receipts are saved under Recibos/<year>/<Month>/<workshop>/ in the work
folder. Without a work folder, or when a save fails, files are written to
the downloads directory instead.

Example Usage:
  recibos folder init --folder ./Talleres
  recibos issue --workshop W1 --payer "Laura Gómez" --students "García, María" \
      --month 2024-03=1500 --month 2024-04=1500:adelantado --copy
  recibos log save`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().StringVarP(
		&folderPath,
		"folder",
		"f",
		"",
		"Work folder (overrides work_folder and RECIBOS_WORK_FOLDER)",
	)
}

package cmd

import (
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	logger "github.com/starwell-project/voidvault/internal/logging"
	"github.com/starwell-project/voidvault/internal/supervisor"
	"github.com/starwell-project/voidvault/internal/utils"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "voidvault",
		Short: "Void Vault - deterministic credential derivation from typed input",
		Long: `Void Vault derives credentials by walking a procedurally generated
multidimensional structure. Nothing is stored but the structure itself,
embedded inside this executable; a copy of the binary is a complete backup.

Run with no arguments for the interactive session. When stdin is a pipe,
the binary speaks the framed JSON bridge protocol used by browser
extensions.

Run 'voidvault help <command>' for more details on a specific command.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// A piped stdin means a host program wants the bridge protocol;
			// a terminal gets the supervised interactive session.
			if utils.StdinIsPipe() {
				return runBridge("")
			}

			figure.NewFigure("voidvault", "", true).Print()

			childArgs := []string{"child"}
			if verbose {
				childArgs = append(childArgs, "--verbose")
			}
			if debug {
				childArgs = append(childArgs, "--debug")
			}
			return supervisor.Run(Logger, childArgs)
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(setupCmd)
	RootCmd.AddCommand(deriveCmd)
	RootCmd.AddCommand(typeCmd)
	RootCmd.AddCommand(bridgeCmd)
	RootCmd.AddCommand(domainsCmd)
	RootCmd.AddCommand(childCmd)
}

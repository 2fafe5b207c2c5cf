package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/starwell-project/voidvault/internal/protocol"
	"github.com/starwell-project/voidvault/internal/session"
	"github.com/starwell-project/voidvault/internal/vault"
)

var (
	bridgeAccount string

	bridgeCmd = &cobra.Command{
		Use:   "bridge",
		Short: "Speak the framed JSON protocol over stdin/stdout",
		Long: `Runs the bridge protocol used by browser extensions: 4-byte
little-endian length-prefixed JSON frames in both directions. This mode is
selected automatically when the binary is started with a piped stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBridge(bridgeAccount)
		},
	}
)

func runBridge(account string) error {
	manager, table, config, err := openVault(nil)
	if err != nil {
		return err
	}

	if account == "" {
		account = config.DefaultProfile
	}
	profile, err := manager.Active(account)
	if err != nil {
		return err
	}
	Logger.Debugf("bridge serving profile %q", profile.Name)

	profile.Engine.ResetPosition()

	deriver := vault.NewDeriver(profile.Engine, profile.ExtraChars)
	sess := session.New(profile.Engine, table, persistTable(manager), Logger)
	handler := protocol.NewHandler(deriver, sess, Logger)

	return handler.Serve(os.Stdin, os.Stdout)
}

func init() {
	bridgeCmd.Flags().StringVar(&bridgeAccount, "account", "", "profile to serve")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starwell-project/voidvault/internal/supervisor"
	"github.com/starwell-project/voidvault/internal/ui"
	"github.com/starwell-project/voidvault/internal/vault"
)

// childCmd is the supervised half of the interactive session. The parent
// spawns it with the control pipes attached; it owns the terminal and does
// the actual work, signaling the parent around binary rewrites.
var childCmd = &cobra.Command{
	Use:    "child",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		notifier := supervisor.ChildNotifier()
		defer notifier.Close()
		defer notifier.Shutdown()

		notifier.Ready()

		manager, _, config, err := openVault(notifier.Updated)
		if err != nil {
			printError(err)
			return err
		}

		profile, err := manager.Active(config.DefaultProfile)
		if err != nil {
			// First run: no vault yet. Walk through setup, then type.
			profile, err = runSetup(config)
			if err != nil {
				printError(err)
				return err
			}
			if err := manager.Save(profile); err != nil {
				printError(err)
				return err
			}
			fmt.Println(ui.Success.Sprint("✓ Setup complete! Your vault lives inside this binary now."))
		}

		deriver := vault.NewDeriver(profile.Engine, profile.ExtraChars)
		fmt.Println(ui.Info.Sprintf("Typing with profile %q. Backspace restarts, Ctrl-C exits.", profile.Name))
		return runTypeMode(deriver)
	},
}

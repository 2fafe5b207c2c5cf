package cmd

import (
	"fmt"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/starwell-project/voidvault/internal/ui"
	"github.com/starwell-project/voidvault/internal/utils"
	"github.com/starwell-project/voidvault/internal/vault"
)

var (
	typeAccount string
	typeDomain  string

	typeCmd = &cobra.Command{
		Use:   "type",
		Short: "Derive credentials interactively as you type",
		Long: `Opens a raw-mode session: every keystroke prints the credential
characters it derives. Backspace starts the derivation over from scratch;
Ctrl-C ends the session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, table, config, err := openVault(nil)
			if err != nil {
				printError(err)
				return err
			}

			preferred := typeAccount
			if preferred == "" {
				preferred = config.DefaultProfile
			}
			profile, err := manager.Active(preferred)
			if err != nil {
				printError(err)
				return err
			}

			deriver := vault.NewDeriver(profile.Engine, profile.ExtraChars)
			if typeDomain != "" {
				fingerprint := profile.Engine.HashDomain(typeDomain)
				counter, _ := table.Counter(fingerprint)
				deriver.SetCounterOffset(counter)
			}

			fmt.Println(ui.Info.Sprintf("Typing with profile %q. Backspace restarts, Ctrl-C exits.", profile.Name))
			return runTypeMode(deriver)
		},
	}
)

// runTypeMode is the interactive derivation loop. Output accumulates on the
// terminal as the user types; backspace wipes the derivation state so a
// mistyped phrase can be restarted rather than corrected.
func runTypeMode(deriver *vault.Deriver) error {
	restore, err := utils.EnterRawMode()
	if err != nil {
		return err
	}
	defer restore()
	defer deriver.Scrub()

	deriver.Engine().ResetPosition()

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if n == 0 {
			return nil
		}
		if err != nil {
			return err
		}

		switch {
		case buf[0] == 3: // Ctrl-C
			fmt.Print("\r\n")
			return nil

		case buf[0] == 8 || buf[0] == 127: // backspace: start over
			deriver.Reset()
			fmt.Print("\r\x1B[0J")

		default:
			r := rune(buf[0])
			if unicode.IsControl(r) {
				continue
			}
			for _, out := range deriver.Derive(uint32(r)) {
				if o := rune(out); utf8.ValidRune(o) {
					fmt.Printf("%c", o)
				}
			}
		}
	}
}

func init() {
	typeCmd.Flags().StringVar(&typeAccount, "account", "", "profile to derive with")
	typeCmd.Flags().StringVar(&typeDomain, "domain", "", "apply this domain's rotation counter")
}

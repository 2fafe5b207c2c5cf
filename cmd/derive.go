package cmd

import (
	"fmt"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/starwell-project/voidvault/internal/utils"
	"github.com/starwell-project/voidvault/internal/vault"
)

var (
	deriveAccount string
	deriveDomain  string

	deriveCmd = &cobra.Command{
		Use:   "derive",
		Short: "Derive a credential from a phrase on stdin",
		Long: `Reads one line from stdin, runs it through the vault, and prints the
credential derived from the final keystroke. Intended for scripts and
pipelines; use 'type' for an interactive session.

With --domain, the domain's rotation counter shifts the derivation, so
bumping the counter yields a fresh credential for the same phrase.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, table, config, err := openVault(nil)
			if err != nil {
				printError(err)
				return err
			}

			preferred := deriveAccount
			if preferred == "" {
				preferred = config.DefaultProfile
			}
			profile, err := manager.Active(preferred)
			if err != nil {
				printError(err)
				return err
			}
			Logger.Debugf("deriving with profile %q", profile.Name)

			deriver := vault.NewDeriver(profile.Engine, profile.ExtraChars)
			if deriveDomain != "" {
				fingerprint := profile.Engine.HashDomain(deriveDomain)
				counter, _ := table.Counter(fingerprint)
				deriver.SetCounterOffset(counter)
				Logger.Debugf("domain counter offset %d", counter)
			}

			return runDerive(deriver)
		},
	}
)

// runDerive reads one line of input and prints only the final keystroke's
// output. Earlier keystrokes still shape the result through the feedback
// chain.
func runDerive(deriver *vault.Deriver) error {
	defer deriver.Scrub()

	var input []uint32
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if n == 0 || err != nil {
			break
		}
		if buf[0] == '\n' || buf[0] == '\r' {
			break
		}
		r := rune(buf[0])
		if !unicode.IsControl(r) {
			input = append(input, uint32(r))
		}
	}
	defer utils.ScrubCodes(input)

	for i, code := range input {
		output := deriver.Derive(code)
		if i == len(input)-1 {
			for _, out := range output {
				if r := rune(out); utf8.ValidRune(r) {
					fmt.Printf("%c", r)
				}
			}
		}
	}

	return nil
}

func init() {
	deriveCmd.Flags().StringVar(&deriveAccount, "account", "", "profile to derive with")
	deriveCmd.Flags().StringVar(&deriveDomain, "domain", "", "apply this domain's rotation counter")
}

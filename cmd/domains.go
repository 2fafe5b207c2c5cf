package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/starwell-project/voidvault/internal/domains"
	"github.com/starwell-project/voidvault/internal/geometry"
	"github.com/starwell-project/voidvault/internal/ui"
	"github.com/starwell-project/voidvault/internal/vault"
)

var (
	domainsAccount string

	domainsCmd = &cobra.Command{
		Use:   "domains",
		Short: "Manage per-domain rotation counters and rules",
		Long: `Each domain gets a rotation counter and optional password rules,
stored by fingerprint inside this binary. Bumping a counter rotates every
credential derived for that domain without touching your vault.`,
	}

	domainsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, _, err := openVault(nil)
			if err != nil {
				printError(err)
				return err
			}

			occupied := table.Occupied()
			if len(occupied) == 0 {
				fmt.Println(ui.Muted.Sprint("No domains registered."))
				return nil
			}

			fmt.Println(ui.Highlight.Sprintf("%d registered domain(s):", len(occupied)))
			for _, slot := range occupied {
				rules := "no length cap"
				if slot.MaxLength > 0 {
					rules = fmt.Sprintf("max length %d", slot.MaxLength)
				}
				fmt.Printf("  %x  counter %d, %s, char types %d\n",
					slot.Fingerprint[:16], slot.Counter, rules, slot.CharTypes)
			}
			fmt.Println(ui.Muted.Sprint("Domains are stored as fingerprints; names are never kept."))
			return nil
		},
	}

	domainsGetCmd = &cobra.Command{
		Use:   "get <domain>",
		Short: "Show a domain's rotation counter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, table, _, err := domainEngine()
			if err != nil {
				printError(err)
				return err
			}

			counter, known := table.Counter(engine.HashDomain(args[0]))
			if !known {
				fmt.Println(ui.Muted.Sprintf("%s is not registered.", args[0]))
				return nil
			}
			fmt.Println(ui.Info.Sprintf("%s: counter %d", args[0], counter))
			return nil
		},
	}

	domainsSetCmd = &cobra.Command{
		Use:   "set <domain> <counter>",
		Short: "Set a domain's rotation counter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			counter, err := strconv.ParseUint(args[1], 10, 16)
			if err != nil {
				printError(fmt.Errorf("counter must be 0-65535: %w", err))
				return err
			}

			engine, table, manager, err := domainEngine()
			if err != nil {
				printError(err)
				return err
			}

			if err := table.SetCounter(engine.HashDomain(args[0]), uint16(counter)); err != nil {
				printError(err)
				return err
			}

			s, cleanup := startSpinner("Saving domain table...")
			if err := persistTable(manager)(table); err != nil {
				s.FinalMSG = ui.Error.Sprintf("✗ Could not save: %v", err)
				cleanup()
				return err
			}
			s.FinalMSG = ui.Success.Sprintf("✓ %s set to counter %d", args[0], counter)
			cleanup()
			return nil
		},
	}

	domainsIncrementCmd = &cobra.Command{
		Use:   "increment <domain>",
		Short: "Bump a domain's rotation counter, rotating its credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, table, manager, err := domainEngine()
			if err != nil {
				printError(err)
				return err
			}

			counter, err := table.Increment(engine.HashDomain(args[0]))
			if err != nil {
				printError(err)
				return err
			}

			s, cleanup := startSpinner("Saving domain table...")
			if err := persistTable(manager)(table); err != nil {
				s.FinalMSG = ui.Error.Sprintf("✗ Could not save: %v", err)
				cleanup()
				return err
			}
			s.FinalMSG = ui.Success.Sprintf("✓ %s rotated to counter %d", args[0], counter)
			cleanup()
			return nil
		},
	}

	domainsMaxLength uint16
	domainsCharTypes uint8

	domainsRulesCmd = &cobra.Command{
		Use:   "rules <domain>",
		Short: "Show or set a domain's password rules",
		Long: `Without flags, prints the domain's stored rules. With --max-length or
--char-types, stores new rules. Rules are hints delivered to bridge clients
at activation; the vault itself always derives from the full alphabet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, table, manager, err := domainEngine()
			if err != nil {
				printError(err)
				return err
			}
			fingerprint := engine.HashDomain(args[0])

			if !cmd.Flags().Changed("max-length") && !cmd.Flags().Changed("char-types") {
				maxLength, charTypes := table.Rules(fingerprint)
				fmt.Println(ui.Info.Sprintf("%s: max length %d, char types %d", args[0], maxLength, charTypes))
				return nil
			}

			maxLength, charTypes := table.Rules(fingerprint)
			if cmd.Flags().Changed("max-length") {
				maxLength = domainsMaxLength
			}
			if cmd.Flags().Changed("char-types") {
				charTypes = domainsCharTypes
			}

			if err := table.SetRules(fingerprint, maxLength, charTypes); err != nil {
				printError(err)
				return err
			}

			s, cleanup := startSpinner("Saving domain table...")
			if err := persistTable(manager)(table); err != nil {
				s.FinalMSG = ui.Error.Sprintf("✗ Could not save: %v", err)
				cleanup()
				return err
			}
			s.FinalMSG = ui.Success.Sprintf("✓ Rules for %s updated", args[0])
			cleanup()
			return nil
		},
	}
)

// domainEngine resolves the engine used to fingerprint domain names, plus
// the table and manager needed to store changes.
func domainEngine() (*geometry.Engine, *domains.Table, *vault.Manager, error) {
	manager, table, config, err := openVault(nil)
	if err != nil {
		return nil, nil, nil, err
	}

	preferred := domainsAccount
	if preferred == "" {
		preferred = config.DefaultProfile
	}
	profile, err := manager.Active(preferred)
	if err != nil {
		return nil, nil, nil, err
	}
	return profile.Engine, table, manager, nil
}

func init() {
	domainsCmd.PersistentFlags().StringVar(&domainsAccount, "account", "", "profile used to fingerprint domains")
	domainsRulesCmd.Flags().Uint16Var(&domainsMaxLength, "max-length", 0, "maximum password length (0 = no cap)")
	domainsRulesCmd.Flags().Uint8Var(&domainsCharTypes, "char-types", domains.DefaultCharTypes, "allowed character class bitmask")

	domainsCmd.AddCommand(domainsListCmd)
	domainsCmd.AddCommand(domainsGetCmd)
	domainsCmd.AddCommand(domainsSetCmd)
	domainsCmd.AddCommand(domainsIncrementCmd)
	domainsCmd.AddCommand(domainsRulesCmd)
}

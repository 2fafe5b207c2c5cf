package cmd

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/starwell-project/voidvault/internal/configs"
	"github.com/starwell-project/voidvault/internal/geometry"
	"github.com/starwell-project/voidvault/internal/ui"
	"github.com/starwell-project/voidvault/internal/utils"
	"github.com/starwell-project/voidvault/internal/vault"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create your vault with a one-time setup phrase",
	Long: `Generates your personal derivation structure and embeds it in this
binary. You type a phrase once; the phrase and your typing rhythm shape the
structure, and neither is ever stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, config, err := openVault(nil)
		if err != nil {
			printError(err)
			return err
		}

		if len(manager.Store().Entries()) > 0 {
			fmt.Println(ui.Warning.Sprint("A vault already exists in this binary."))
			fmt.Println(ui.Muted.Sprint("Setup would not overwrite it; nothing was changed."))
			return nil
		}

		profile, err := runSetup(config)
		if err != nil {
			printError(err)
			return err
		}

		s, cleanup := startSpinner("Embedding your vault in the binary...")
		if err := manager.Save(profile); err != nil {
			s.FinalMSG = ui.Error.Sprintf("✗ Could not save the vault: %v", err)
			cleanup()
			return err
		}
		s.FinalMSG = ui.Success.Sprint("✓ Setup complete! Your vault lives inside this binary now.")
		cleanup()

		fmt.Println()
		fmt.Println(ui.Warning.Sprint("⚠ Back up this file somewhere safe."))
		fmt.Println(ui.Muted.Sprint("  Without it, your credentials cannot be re-derived."))
		return nil
	},
}

// runSetup walks the user through the interactive setup phrase and returns
// the finished profile.
func runSetup(config *configs.Config) (*vault.Profile, error) {
	dimensions := config.Setup.Dimensions
	extraChars := config.Setup.ExtraChars
	rangeBound := int32(10 + dimensions)
	seed := uint64(time.Now().Unix())

	fmt.Println()
	fmt.Println(ui.Highlight.Sprint("First-Time Setup"))
	fmt.Println()
	fmt.Println("Type a phrase of at least 40 characters.")
	fmt.Println("This phrase creates your unique vault.")
	fmt.Println()
	fmt.Println("  • Type any phrase, sentence, or random characters")
	fmt.Println("  • Type naturally, your rhythm adds uniqueness")
	fmt.Println("  • The phrase is ONLY for setup, not for deriving credentials")
	fmt.Println("  • Press ESC when finished")
	fmt.Println()
	fmt.Print("Press Enter to begin...")
	bufio.NewReader(os.Stdin).ReadString('\n')

	engine := geometry.New(dimensions, rangeBound, seed)
	engine.Generate(nil, defaultAlphabet())

	count, err := shapeStructure(engine, extraChars)
	if err != nil {
		return nil, err
	}

	engine.SetName("main")
	engine.FullReset()

	fmt.Println()
	fmt.Println(ui.Info.Sprintf("You typed %d characters for setup.", count))

	return &vault.Profile{
		Name:        "main",
		Description: "Primary configuration",
		Created:     time.Now().UTC(),
		ExtraChars:  extraChars,
		Engine:      engine,
	}, nil
}

// shapeStructure reads the setup phrase in raw mode, perturbing the
// structure with each keystroke and its timing. Returns the number of
// characters typed. The phrase itself is never kept.
func shapeStructure(engine *geometry.Engine, extraChars int) (int, error) {
	restore, err := utils.EnterRawMode()
	if err != nil {
		return 0, err
	}
	defer restore()

	fmt.Print("\r\nStart typing your sequence now:\r\n")

	lastKeypress := time.Now()
	count := 0
	buf := make([]byte, 1)

	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return count, err
		}
		code := uint32(buf[0])

		if code == 27 {
			fmt.Print("\r\nSetup complete!\r\n")
			return count, nil
		}

		now := time.Now()
		timingMs := uint64(now.Sub(lastKeypress).Milliseconds())
		lastKeypress = now
		timestamp := uint64(now.UnixMilli())

		switch {
		case code == 8 || code == 127:
			if count > 0 {
				count--
			}
			engine.ApplyTiming(code, timingMs, timestamp)
			engine.Transform(code, extraChars)
		case code >= 32 && code < 127:
			count++
			engine.ApplyTiming(code, timingMs, timestamp)
			engine.Transform(code, extraChars)
			fmt.Printf("\r%d characters typed", count)
		}
	}
}

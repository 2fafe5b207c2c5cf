package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/starwell-project/voidvault/internal/binstore"
	"github.com/starwell-project/voidvault/internal/configs"
	"github.com/starwell-project/voidvault/internal/domains"
	"github.com/starwell-project/voidvault/internal/ui"
	"github.com/starwell-project/voidvault/internal/vault"
)

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode. Returns the spinner and a function that should
// be deferred to clean up.
//
// spinner.FinalMSG values do NOT need trailing newlines. The cleanup
// function calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if !verbose && !debug {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// openVault loads user configuration, attaches to the managed binary, and
// decodes the embedded domain table. notify fires after every binary
// rewrite; nil is fine for modes without a supervising parent.
func openVault(notify func()) (*vault.Manager, *domains.Table, *configs.Config, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	path := config.BinaryPath
	if path == "" {
		path, err = os.Executable()
		if err != nil {
			return nil, nil, nil, err
		}
	}
	Logger.Debugf("managed binary: %s", path)

	store, err := binstore.Open(path, domains.TableSize, Logger, notify)
	if err != nil {
		return nil, nil, nil, err
	}

	table := domains.NewTable()
	if err := table.UnmarshalBinary(store.Table()); err != nil {
		return nil, nil, nil, err
	}

	return vault.NewManager(store, Logger), table, config, nil
}

// persistTable returns a function that writes the table back into the
// binary's storage region.
func persistTable(manager *vault.Manager) func(*domains.Table) error {
	return func(table *domains.Table) error {
		return manager.Store().SetTable(table.MarshalBinary())
	}
}

// defaultAlphabet is the output character set used by setup: printable
// ASCII plus broad Unicode ranges and emoji. Rule enforcement is the host
// client's job.
func defaultAlphabet() []uint32 {
	ranges := [][2]uint32{
		{32, 127},        // ASCII printable
		{161, 1024},      // Extended Latin, Greek, Cyrillic
		{1024, 5000},     // CJK, Arabic, Hebrew
		{8192, 8500},     // Symbols
		{9000, 9500},     // More symbols
		{128512, 128591}, // Emoji
	}

	var alphabet []uint32
	for _, r := range ranges {
		for code := r[0]; code < r[1]; code++ {
			alphabet = append(alphabet, code)
		}
	}
	return alphabet
}

func printError(err error) {
	fmt.Println(ui.Error.Sprintf("✗ %v", err))
}

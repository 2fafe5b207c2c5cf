package supervisor

import (
	"io"
	"os"
	"os/exec"
	"time"

	logger "github.com/starwell-project/voidvault/internal/logging"
)

// Control messages exchanged over the supervisor pipes. One byte each.
const (
	msgReady          byte = 'R'
	msgUpdated        byte = 'U'
	msgShutdown       byte = 'S'
	msgUpdateComplete byte = 'C'
)

// File descriptors the child inherits beyond stdio.
const (
	childEventsFd = 3
	childAcksFd   = 4
)

// Run spawns the child copy of this binary and supervises it until it shuts
// down. The child gets the terminal; the parent only answers control
// messages.
func Run(log logger.Logger, childArgs []string) error {
	executable, err := os.Executable()
	if err != nil {
		return err
	}

	eventsRead, eventsWrite, err := os.Pipe()
	if err != nil {
		return err
	}
	acksRead, acksWrite, err := os.Pipe()
	if err != nil {
		return err
	}

	cmd := exec.Command(executable, childArgs...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{eventsWrite, acksRead}

	if err := cmd.Start(); err != nil {
		return err
	}
	eventsWrite.Close()
	acksRead.Close()

	if err := expect(eventsRead, msgReady); err != nil {
		log.Errorf("child failed to report ready: %v", err)
		cmd.Process.Kill()
		cmd.Wait()
		return err
	}
	log.Debugf("child ready")

	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(eventsRead, buf); err != nil {
			// Pipe closed: the child is gone, cleanly or not.
			break
		}

		switch buf[0] {
		case msgUpdated:
			log.Debugf("child rewrote the binary")
			// Give the filesystem a beat to settle before acknowledging.
			time.Sleep(100 * time.Millisecond)
			if _, err := acksWrite.Write([]byte{msgUpdateComplete}); err != nil {
				log.Warnf("could not acknowledge binary update: %v", err)
			}
		case msgShutdown:
			log.Debugf("child requested shutdown")
		}
		if buf[0] == msgShutdown {
			break
		}
	}

	acksWrite.Close()
	eventsRead.Close()

	return cmd.Wait()
}

func expect(r io.Reader, want byte) error {
	buf := make([]byte, 1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	if buf[0] != want {
		return os.ErrInvalid
	}
	return nil
}

// Notifier is the child's end of the control pipes. All methods degrade to
// no-ops when the process was started without a supervising parent.
type Notifier struct {
	events *os.File
	acks   *os.File

	disabled bool
}

// ChildNotifier attaches to the inherited control pipes.
func ChildNotifier() *Notifier {
	return &Notifier{
		events: os.NewFile(childEventsFd, "supervisor-events"),
		acks:   os.NewFile(childAcksFd, "supervisor-acks"),
	}
}

// Disabled returns a notifier whose methods do nothing, for modes that run
// without a parent.
func Disabled() *Notifier {
	return &Notifier{disabled: true}
}

func (n *Notifier) send(msg byte) {
	if n.disabled || n.events == nil {
		return
	}
	if _, err := n.events.Write([]byte{msg}); err != nil {
		// Started by hand rather than by the parent. Go quiet.
		n.disabled = true
	}
}

// Ready tells the parent initialization finished.
func (n *Notifier) Ready() {
	n.send(msgReady)
}

// Updated tells the parent the binary was rewritten. The parent's
// acknowledgement is never consumed; nothing may depend on it, and waiting
// would hang the save if the parent died first.
func (n *Notifier) Updated() {
	n.send(msgUpdated)
}

// Shutdown tells the parent the session is over.
func (n *Notifier) Shutdown() {
	n.send(msgShutdown)
}

// Close releases the pipe ends.
func (n *Notifier) Close() {
	if n.events != nil {
		n.events.Close()
	}
	if n.acks != nil {
		n.acks.Close()
	}
}

package supervisor

import (
	"io"
	"os"
	"testing"
	"time"
)

func TestNotifierSendsWithoutWaiting(t *testing.T) {
	eventsRead, eventsWrite, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer eventsRead.Close()
	defer eventsWrite.Close()

	n := &Notifier{events: eventsWrite}

	// No acknowledgement is ever written; every call must still return.
	done := make(chan struct{})
	go func() {
		n.Ready()
		n.Updated()
		n.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier blocked waiting on the parent")
	}

	buf := make([]byte, 3)
	if _, err := io.ReadFull(eventsRead, buf); err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if string(buf) != "RUS" {
		t.Errorf("event sequence = %q, want %q", buf, "RUS")
	}
}

func TestNotifierGoesQuietWithoutParent(t *testing.T) {
	eventsRead, eventsWrite, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer eventsWrite.Close()

	// Closing the read end simulates a manual run with no parent listening.
	eventsRead.Close()

	n := &Notifier{events: eventsWrite}
	n.Ready()
	if !n.disabled {
		t.Fatal("notifier still enabled after a failed write")
	}

	// Further calls are no-ops.
	n.Updated()
	n.Shutdown()
}

func TestDisabledNotifier(t *testing.T) {
	n := Disabled()
	n.Ready()
	n.Updated()
	n.Shutdown()
	n.Close()
}

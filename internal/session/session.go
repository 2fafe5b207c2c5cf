package session

import (
	"github.com/starwell-project/voidvault/internal/domains"
	"github.com/starwell-project/voidvault/internal/errors"
	"github.com/starwell-project/voidvault/internal/geometry"
	logger "github.com/starwell-project/voidvault/internal/logging"
)

// PersistFunc saves the domain table after a mutation. A persist failure is
// reported as a warning, never as a command failure: the in-memory counter
// is already live.
type PersistFunc func(*domains.Table) error

// Info describes the session state returned by activation commands.
type Info struct {
	SavedCounter  uint16
	ActiveCounter uint16
	MaxLength     uint16
	CharTypes     uint8
	Preview       bool
}

// Session binds an engine to a domain table for one bridge conversation.
type Session struct {
	engine  *geometry.Engine
	table   *domains.Table
	persist PersistFunc
	log     logger.Logger

	fingerprint   domains.Fingerprint
	hasDomain     bool
	savedCounter  uint16
	activeCounter uint16
	preview       bool
	initialized   bool
}

// New returns an inactive session.
func New(engine *geometry.Engine, table *domains.Table, persist PersistFunc, log logger.Logger) *Session {
	return &Session{
		engine:  engine,
		table:   table,
		persist: persist,
		log:     log,
	}
}

// Initialized reports whether a domain has been activated.
func (s *Session) Initialized() bool { return s.initialized }

// ActiveCounter returns the counter currently shaping derivations.
func (s *Session) ActiveCounter() uint16 { return s.activeCounter }

// Previewing reports whether the session is trying an uncommitted counter.
func (s *Session) Previewing() bool { return s.preview }

func (s *Session) save() {
	if s.persist == nil {
		return
	}
	if err := s.persist(s.table); err != nil {
		s.log.Warnf("could not save domain table: %v", err)
	}
}

// Counter looks up a domain's stored counter without touching the session.
func (s *Session) Counter(domain string) (uint16, bool) {
	return s.table.Counter(s.engine.HashDomain(domain))
}

// ghostNavigate walks the engine to the unique starting position for the
// current fingerprint and a counter. No output characters are produced;
// only the cursor moves.
func (s *Session) ghostNavigate(counter uint16) {
	for i := 0; i < 8; i++ {
		s.engine.Transform(uint32(s.fingerprint[i]), 0)
	}

	c := uint32(counter)
	s.engine.Transform(c, 0)
	s.engine.Transform(c*7, 0)
	s.engine.Transform(c+13, 0)
}

// Activate starts a session for a domain at its stored counter, registering
// the domain at counter zero when it is unknown.
func (s *Session) Activate(domain string) (Info, error) {
	fingerprint := s.engine.HashDomain(domain)

	counter, known := s.table.Counter(fingerprint)
	if !known {
		if err := s.table.SetCounter(fingerprint, 0); err != nil {
			return Info{}, err
		}
		s.save()
		counter = 0
	}

	maxLength, charTypes := s.table.Rules(fingerprint)

	s.fingerprint = fingerprint
	s.hasDomain = true
	s.savedCounter = counter
	s.activeCounter = counter
	s.preview = false
	s.initialized = true

	s.engine.FullReset()
	s.ghostNavigate(counter)

	return Info{
		SavedCounter:  counter,
		ActiveCounter: counter,
		MaxLength:     maxLength,
		CharTypes:     charTypes,
	}, nil
}

// ActivatePreview starts a session for a domain at its next counter value
// without persisting anything. The stored counter stays untouched until
// CommitIncrement.
func (s *Session) ActivatePreview(domain string) (Info, error) {
	fingerprint := s.engine.HashDomain(domain)

	savedCounter, _ := s.table.Counter(fingerprint)
	previewCounter := savedCounter
	if previewCounter < ^uint16(0) {
		previewCounter++
	}

	maxLength, charTypes := s.table.Rules(fingerprint)

	s.fingerprint = fingerprint
	s.hasDomain = true
	s.savedCounter = savedCounter
	s.activeCounter = previewCounter
	s.preview = true
	s.initialized = true

	s.engine.FullReset()
	s.ghostNavigate(previewCounter)

	return Info{
		SavedCounter:  savedCounter,
		ActiveCounter: previewCounter,
		MaxLength:     maxLength,
		CharTypes:     charTypes,
		Preview:       true,
	}, nil
}

// CommitIncrement persists the previewed counter for a domain and leaves
// preview mode. The engine position is untouched: the caller is already
// typing at the committed counter.
func (s *Session) CommitIncrement(domain string) (uint16, error) {
	if !s.preview {
		return 0, errors.ErrNotPreviewing
	}

	fingerprint := s.engine.HashDomain(domain)
	if err := s.table.SetCounter(fingerprint, s.activeCounter); err != nil {
		return 0, err
	}
	s.save()

	s.savedCounter = s.activeCounter
	s.preview = false

	return s.activeCounter, nil
}

// CancelPreview abandons the previewed counter and re-navigates at the
// saved one.
func (s *Session) CancelPreview() (uint16, error) {
	if !s.preview {
		return 0, errors.ErrNotPreviewing
	}

	s.activeCounter = s.savedCounter
	s.preview = false

	s.engine.FullReset()
	if s.hasDomain {
		s.ghostNavigate(s.savedCounter)
	}

	return s.savedCounter, nil
}

// SetCounter stores an explicit counter for a domain. When the domain is
// the session's own, the session snaps to the new counter and the engine
// returns to the origin; snapped reports this so the caller can drop any
// per-keystroke state of its own.
func (s *Session) SetCounter(domain string, counter uint16) (snapped bool, err error) {
	fingerprint := s.engine.HashDomain(domain)
	if err := s.table.SetCounter(fingerprint, counter); err != nil {
		return false, err
	}
	s.save()

	if s.hasDomain && s.fingerprint == fingerprint {
		s.savedCounter = counter
		s.activeCounter = counter
		s.preview = false
		s.engine.FullReset()
		return true, nil
	}

	return false, nil
}

// SetRules stores password rules for a domain.
func (s *Session) SetRules(domain string, maxLength uint16, charTypes uint8) error {
	fingerprint := s.engine.HashDomain(domain)
	if err := s.table.SetRules(fingerprint, maxLength, charTypes); err != nil {
		return err
	}
	s.save()
	return nil
}

// Reset returns the engine to the session's starting position: origin, then
// re-navigation at the active counter when a domain is live. Preview mode
// survives a reset so the caller can retype at the same counter.
func (s *Session) Reset() {
	s.engine.FullReset()
	if s.initialized && s.hasDomain {
		s.ghostNavigate(s.activeCounter)
	}
}

// Finalize tears the session down.
func (s *Session) Finalize() {
	s.initialized = false
	s.hasDomain = false
	s.fingerprint = domains.Fingerprint{}
}

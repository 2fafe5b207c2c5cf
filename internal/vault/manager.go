package vault

import (
	"github.com/starwell-project/voidvault/internal/binstore"
	"github.com/starwell-project/voidvault/internal/errors"
	logger "github.com/starwell-project/voidvault/internal/logging"
)

// Manager loads profiles out of the binary store and saves them back.
type Manager struct {
	store *binstore.Store
	log   logger.Logger
}

// NewManager wraps an opened store.
func NewManager(store *binstore.Store, log logger.Logger) *Manager {
	return &Manager{store: store, log: log}
}

// Store exposes the underlying binary store.
func (m *Manager) Store() *binstore.Store { return m.store }

// Profiles decodes every embedded profile, skipping undecodable entries
// with a warning.
func (m *Manager) Profiles() []*Profile {
	entries := m.store.Entries()
	profiles := make([]*Profile, 0, len(entries))

	for _, entry := range entries {
		profile, err := DecodeProfile(entry.Payload, m.log)
		if err != nil {
			m.log.Warnf("skipping undecodable profile %q: %v", entry.Name, err)
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles
}

// Find returns the profile with the given name.
func (m *Manager) Find(name string) (*Profile, error) {
	entry, err := m.store.Get(name)
	if err != nil {
		return nil, err
	}
	return DecodeProfile(entry.Payload, m.log)
}

// Active resolves which profile a command should use: the preferred name
// when given, otherwise the first stored profile.
func (m *Manager) Active(preferred string) (*Profile, error) {
	if preferred != "" {
		return m.Find(preferred)
	}

	entries := m.store.Entries()
	if len(entries) == 0 {
		return nil, errors.ErrNoProfile
	}
	return DecodeProfile(entries[0].Payload, m.log)
}

// Save persists a profile, rewriting the binary.
func (m *Manager) Save(profile *Profile) error {
	return m.store.Put(profile.Name, profile.Description, profile.Encode())
}

package datasync

import (
	"errors"
	"log"
	"sync"

	"back_stream/internal/repository"
)

var ErrNoViewer = errors.New("no viewer signed in")

// Manager owns one Library per signed-in viewer. An identity appearing for
// the first time gets a fresh library; releasing an identity flushes its
// session and drops all of its state.
type Manager struct {
	songs   repository.SongRepository
	users   repository.UserRepository
	library repository.LibraryRepository

	mu        sync.Mutex
	libraries map[string]*Library
}

func NewManager(
	songs repository.SongRepository,
	users repository.UserRepository,
	library repository.LibraryRepository,
) *Manager {
	return &Manager{
		songs:     songs,
		users:     users,
		library:   library,
		libraries: make(map[string]*Library),
	}
}

// ForViewer returns the viewer's library, creating it on first use. Every
// mutation path goes through here, so an empty identity is refused once
// instead of being checked in each operation.
func (m *Manager) ForViewer(userID string) (*Library, error) {
	if userID == "" {
		return nil, ErrNoViewer
	}

	m.mu.Lock()
	lib, ok := m.libraries[userID]
	if !ok {
		lib = NewLibrary(userID, m.songs, m.users, m.library)
		m.libraries[userID] = lib
	}
	m.mu.Unlock()

	lib.EnsureLoaded()
	return lib, nil
}

// Release flushes the viewer's session and discards their state entirely,
// mirroring a sign-out.
func (m *Manager) Release(userID string) {
	m.mu.Lock()
	lib, ok := m.libraries[userID]
	delete(m.libraries, userID)
	m.mu.Unlock()

	if ok {
		lib.StopTracking()
		log.Printf("[Manager] released library for user %s", userID)
	}
}

package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/forsyth47/yt-dlp-telegram/internal/quality"
)

// Store persists per-user quality preferences in a JSON file. It is simple
// key-value CRUD; the orchestrator only ever reads through GetQuality.
type Store struct {
	mu   sync.Mutex
	path string
	data fileData
}

type fileData struct {
	Users []userRecord `json:"users"`
}

type userRecord struct {
	ID      int64  `json:"id"`
	Quality string `json:"quality"`
}

// NewStore loads the store at path, creating the file with an empty user
// list when missing. A corrupt file is replaced rather than failing startup.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, &s.data); jsonErr != nil {
			s.data = fileData{}
		}
		return s, nil
	case os.IsNotExist(err):
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("initialize preference store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("read preference store: %w", err)
	}
}

// GetQuality returns the user's stored quality preference. Unknown users are
// recorded with the default preference as a side effect.
func (s *Store) GetQuality(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.data.Users {
		if u.ID == userID {
			if u.Quality == "" {
				return quality.DefaultPreference
			}
			return u.Quality
		}
	}

	s.data.Users = append(s.data.Users, userRecord{ID: userID, Quality: quality.DefaultPreference})
	_ = s.save()
	return quality.DefaultPreference
}

// SetQuality stores the user's quality preference, creating the user when
// needed
func (s *Store) SetQuality(userID int64, pref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Users {
		if s.data.Users[i].ID == userID {
			s.data.Users[i].Quality = pref
			return s.save()
		}
	}
	s.data.Users = append(s.data.Users, userRecord{ID: userID, Quality: pref})
	return s.save()
}

// save rewrites the file atomically. Callers hold the mutex.
func (s *Store) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	raw, err := json.MarshalIndent(s.data, "", "    ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

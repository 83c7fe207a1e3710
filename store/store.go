// Package store keeps transcription history and favorites in JSON files,
// matching the layout older deployments already have on disk. Disk writes
// are debounced so bursts of transcriptions coalesce into one flush.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/khlin/tabgen/model"
)

const (
	historyFile   = "history.json"
	favoritesFile = "favorites.json"
	historyCap    = 50
	flushDelay    = 500 * time.Millisecond
)

type Store struct {
	dir string

	mu        sync.Mutex
	history   []model.Record
	favorites []model.Record

	debounced func(func())
}

// Open loads any existing history/favorites files from dir, creating the
// directory if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating store dir")
	}
	s := &Store{dir: dir, debounced: debounce.New(flushDelay)}
	if err := loadJSON(filepath.Join(dir, historyFile), &s.history); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, favoritesFile), &s.favorites); err != nil {
		return nil, err
	}
	return s, nil
}

// Add records a transcription result at the head of the history, capped
// at the most recent entries, and schedules a flush.
func (s *Store) Add(res model.TranscriptionResult, source string) model.Record {
	rec := model.Record{
		ID:                  uuid.New().String(),
		Source:              source,
		CreatedAt:           time.Now().Format(time.RFC3339),
		TranscriptionResult: res,
	}

	s.mu.Lock()
	s.history = append([]model.Record{rec}, s.history...)
	if len(s.history) > historyCap {
		s.history = s.history[:historyCap]
	}
	s.mu.Unlock()

	s.debounced(func() { s.Flush() })
	return rec
}

// History returns the records newest first.
func (s *Store) History() []model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Record, len(s.history))
	copy(out, s.history)
	return out
}

// AddFavorite copies a history record into the favorites list. It is a
// no-op if the record is already a favorite.
func (s *Store) AddFavorite(recordID string) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.favorites {
		if f.ID == recordID {
			return f, nil
		}
	}
	for _, r := range s.history {
		if r.ID == recordID {
			s.favorites = append([]model.Record{r}, s.favorites...)
			s.debounced(func() { s.Flush() })
			return r, nil
		}
	}
	return model.Record{}, errors.Errorf("record %v not found", recordID)
}

// RemoveFavorite drops a record from the favorites list.
func (s *Store) RemoveFavorite(recordID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.favorites[:0]
	for _, f := range s.favorites {
		if f.ID != recordID {
			kept = append(kept, f)
		}
	}
	s.favorites = kept
	s.debounced(func() { s.Flush() })
}

// Favorites returns the favorite records newest first.
func (s *Store) Favorites() []model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Record, len(s.favorites))
	copy(out, s.favorites)
	return out
}

// Flush writes both files immediately. Called on shutdown and by the
// debounced scheduler.
func (s *Store) Flush() error {
	s.mu.Lock()
	history := make([]model.Record, len(s.history))
	copy(history, s.history)
	favorites := make([]model.Record, len(s.favorites))
	copy(favorites, s.favorites)
	s.mu.Unlock()

	if err := saveJSON(filepath.Join(s.dir, historyFile), history); err != nil {
		return err
	}
	return saveJSON(filepath.Join(s.dir, favoritesFile), favorites)
}

func loadJSON(path string, out *[]model.Record) error {
	dat, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "reading %v", path)
	}
	if err := json.Unmarshal(dat, out); err != nil {
		return errors.Wrapf(err, "decoding %v", path)
	}
	return nil
}

func saveJSON(path string, recs []model.Record) error {
	dat, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding records")
	}
	if err := os.WriteFile(path, dat, 0o644); err != nil {
		return errors.Wrapf(err, "writing %v", path)
	}
	return nil
}

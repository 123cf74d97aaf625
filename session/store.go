// Package session keeps the deduplicated record of days on which a
// meditation session was completed
package session

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/jojocoffee/serenity/internal/apperr"
	"github.com/jojocoffee/serenity/internal/models"
)

var (
	errLoad = &apperr.Error{
		Message: "unable to load meditated days",
	}

	errSave = &apperr.Error{
		Message: "unable to save meditated days",
	}
)

// Backend loads and saves the persisted list of ISO date strings.
type Backend interface {
	Load() ([]string, error)
	Save(dates []string) error
}

// Store is the in-memory set of meditated days with write-through
// persistence. It is safe for concurrent use.
type Store struct {
	backend Backend
	// dates is kept in insertion order and may transiently hold duplicates;
	// it is deduplicated before every write.
	dates []models.Date
	dirty bool
	mu    sync.Mutex
}

// New returns an empty store. Call Load to read the persisted days.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Load reads the persisted days, replacing the in-memory set. No prior data
// yields an empty set. Entries that are not valid dates are skipped.
func (s *Store) Load() (map[models.Date]struct{}, error) {
	raw, err := s.backend.Load()
	if err != nil {
		return nil, errLoad.Wrap(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dates = s.dates[:0]

	for _, v := range raw {
		d, err := models.ParseDate(v)
		if err != nil {
			slog.Warn("skipping stored date", slog.String("value", v), slog.Any("error", err))
			continue
		}

		s.dates = append(s.dates, d)
	}

	s.dedupeLocked()
	s.dirty = false

	return s.setLocked(), nil
}

// RecordCompletion adds d to the set if it is not there yet and persists the
// set. Recording the same day twice has no further effect, except that a
// save which failed earlier is attempted again.
func (s *Store) RecordCompletion(d models.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.dates, d) {
		if !s.dirty {
			return nil
		}

		return s.saveLocked()
	}

	s.dates = append(s.dates, d)

	return s.saveLocked()
}

// DeleteDate removes d from the set, if present, and persists the set.
func (s *Store) DeleteDate(d models.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dedupeLocked()

	i := slices.Index(s.dates, d)
	if i == -1 {
		return nil
	}

	s.dates = slices.Delete(s.dates, i, i+1)

	return s.saveLocked()
}

// AllDates returns the meditated days in ascending order without touching
// persistence.
func (s *Store) AllDates() []models.Date {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Date, 0, len(s.dates))
	for d := range s.setLocked() {
		out = append(out, d)
	}

	slices.SortFunc(out, compareDates)

	return out
}

// Has reports whether d is a meditated day.
func (s *Store) Has(d models.Date) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Contains(s.dates, d)
}

// Flush persists the set if an earlier write failed. It is meant to be called
// when the application goes to the background or exits.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	s.dedupeLocked()

	out := make([]string, len(s.dates))
	for i, d := range s.dates {
		out[i] = d.String()
	}

	if err := s.backend.Save(out); err != nil {
		s.dirty = true
		return errSave.Wrap(err)
	}

	s.dirty = false

	return nil
}

// dedupeLocked drops repeated days, keeping the first occurrence.
func (s *Store) dedupeLocked() {
	seen := make(map[models.Date]struct{}, len(s.dates))
	out := s.dates[:0]

	for _, d := range s.dates {
		if _, ok := seen[d]; ok {
			continue
		}

		seen[d] = struct{}{}
		out = append(out, d)
	}

	s.dates = out
}

func (s *Store) setLocked() map[models.Date]struct{} {
	set := make(map[models.Date]struct{}, len(s.dates))
	for _, d := range s.dates {
		set[d] = struct{}{}
	}

	return set
}

func compareDates(a, b models.Date) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	default:
		return 0
	}
}

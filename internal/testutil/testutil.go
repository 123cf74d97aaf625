// Package testutil provides in-memory stand-ins for the collaborators of the
// timer and the session store
package testutil

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"sync"
	"time"
)

// Clock is a manually advanced clock.
type Clock struct {
	t  time.Time
	mu sync.Mutex
}

// NewClock returns a clock frozen at t.
func NewClock(t time.Time) *Clock {
	return &Clock{t: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.t = c.t.Add(d)
}

// Prefs is an in-memory key-value store. Setting WriteErr or ReadErr makes
// the corresponding operations fail.
type Prefs struct {
	Values   map[string]int64
	WriteErr error
	ReadErr  error
	mu       sync.Mutex
}

func NewPrefs() *Prefs {
	return &Prefs{Values: make(map[string]int64)}
}

func (p *Prefs) Int64s(keys ...string) (map[string]int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ReadErr != nil {
		return nil, p.ReadErr
	}

	vals := make(map[string]int64, len(keys))

	for _, k := range keys {
		if v, ok := p.Values[k]; ok {
			vals[k] = v
		}
	}

	return vals, nil
}

func (p *Prefs) Update(set map[string]int64, del ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.WriteErr != nil {
		return p.WriteErr
	}

	maps.Copy(p.Values, set)

	for _, k := range del {
		delete(p.Values, k)
	}

	return nil
}

// Snapshot returns a copy of the stored values.
func (p *Prefs) Snapshot() map[string]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return maps.Clone(p.Values)
}

// Alarm records arm and disarm calls without scheduling anything.
type Alarm struct {
	armed     map[string]time.Time
	ArmErr    error
	DisarmErr error
	Arms      int
	Disarms   int
	mu        sync.Mutex
}

func NewAlarm() *Alarm {
	return &Alarm{armed: make(map[string]time.Time)}
}

func (a *Alarm) Arm(at time.Time, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ArmErr != nil {
		return a.ArmErr
	}

	a.Arms++
	a.armed[id] = at

	return nil
}

func (a *Alarm) Disarm(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.DisarmErr != nil {
		return a.DisarmErr
	}

	a.Disarms++
	delete(a.armed, id)

	return nil
}

// At returns the instant the alarm id is armed for.
func (a *Alarm) At(id string) (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	t, ok := a.armed[id]

	return t, ok
}

// Backend is an in-memory date list.
type Backend struct {
	Dates   []string
	SaveErr error
	LoadErr error
	Saves   int
	mu      sync.Mutex
}

func (b *Backend) Load() ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.LoadErr != nil {
		return nil, b.LoadErr
	}

	return slices.Clone(b.Dates), nil
}

func (b *Backend) Save(dates []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.SaveErr != nil {
		return b.SaveErr
	}

	b.Saves++
	b.Dates = slices.Clone(dates)

	return nil
}

// Saved returns a copy of the last saved dates.
func (b *Backend) Saved() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.Dates)
}

// Player records the sounds it was asked to play.
type Player struct {
	played   []string
	Err      error
	Releases int
	mu       sync.Mutex
}

func (p *Player) Play(sound string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.played = append(p.played, sound)

	return p.Err
}

func (p *Player) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Releases++
}

// Played returns the sounds played so far.
func (p *Player) Played() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.played)
}

func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating destination file: %w", err)
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return fmt.Errorf("copying file: %w", err)
	}

	return nil
}

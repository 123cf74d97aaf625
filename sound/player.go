// Package sound plays the alert at the end of a meditation session
package sound

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/maruel/natural"

	"github.com/jojocoffee/serenity/internal/apperr"
	"github.com/jojocoffee/serenity/internal/pathutil"
)

// Built-in sound names.
const (
	Bell = "bell"
	Off  = "off"
)

const (
	bellFrequency  = 528.0
	bellSampleRate = beep.SampleRate(44100)
	bellLength     = 1500 * time.Millisecond

	// the speaker buffers a tenth of a second of audio
	bufferSize = 10
)

// Extensions lists the supported sound file formats.
var Extensions = []string{".ogg", ".mp3", ".flac", ".wav"}

var (
	errInvalidSoundFormat = &apperr.Error{
		Message: "sound file must be in mp3, ogg, flac, or wav format: %s",
	}

	errUnknownSound = &apperr.Error{
		Message: "unknown sound: %s",
	}

	errOpenSound = &apperr.Error{
		Message: "unable to open sound %s",
	}

	errSpeaker = &apperr.Error{
		Message: "unable to initialise the speaker",
	}
)

// Player plays one sound at a time through the system speaker.
type Player struct {
	dir string

	// finish ends the playback in progress, if any
	finish func()
	mu     sync.Mutex
	// playing serializes use of the speaker
	playing sync.Mutex
}

// NewPlayer returns a player that looks up sound names without an extension
// in dir.
func NewPlayer(dir string) *Player {
	return &Player{dir: dir}
}

// Play plays sound and blocks until it has finished or Release is called.
func (p *Player) Play(sound string) error {
	if sound == "" || sound == Off {
		return nil
	}

	p.playing.Lock()
	defer p.playing.Unlock()

	stream, format, err := p.open(sound)
	if err != nil {
		return err
	}

	defer func() {
		_ = stream.Close()
	}()

	err = speaker.Init(
		format.SampleRate,
		format.SampleRate.N(time.Second/bufferSize),
	)
	if err != nil {
		return errSpeaker.Wrap(err)
	}

	done := make(chan struct{})

	var once sync.Once

	finish := func() {
		once.Do(func() {
			close(done)
		})
	}

	p.mu.Lock()
	p.finish = finish
	p.mu.Unlock()

	speaker.Play(beep.Seq(stream, beep.Callback(finish)))

	<-done

	p.mu.Lock()
	p.finish = nil
	p.mu.Unlock()

	speaker.Clear()
	speaker.Close()

	slog.Debug("alert finished", slog.String("sound", sound))

	return nil
}

// Release stops the sound that is playing, if any.
func (p *Player) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finish != nil {
		p.finish()
	}
}

// Resolve returns the file that plays sound. The bell has no file and
// resolves to an empty path.
func (p *Player) Resolve(sound string) (string, error) {
	if sound == Bell {
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(sound))

	if ext == "" {
		for _, e := range Extensions {
			path := filepath.Join(p.dir, sound+e)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		return "", errUnknownSound.Fmt(sound)
	}

	if !slices.Contains(Extensions, ext) {
		return "", errInvalidSoundFormat.Fmt(sound)
	}

	if !filepath.IsAbs(sound) {
		if _, err := os.Stat(sound); errors.Is(err, os.ErrNotExist) {
			sound = filepath.Join(p.dir, sound)
		}
	}

	if _, err := os.Stat(sound); err != nil {
		return "", errUnknownSound.Fmt(sound)
	}

	return sound, nil
}

func (p *Player) open(sound string) (beep.StreamCloser, beep.Format, error) {
	path, err := p.Resolve(sound)
	if err != nil {
		return nil, beep.Format{}, err
	}

	if path == "" {
		return bell()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, errOpenSound.Fmt(sound).Wrap(err)
	}

	stream, format, err := decode(f, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, errOpenSound.Fmt(sound).Wrap(err)
	}

	return stream, format, nil
}

// decode takes ownership of f: closing the returned stream closes it.
func decode(f *os.File, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext {
	case ".ogg":
		return vorbis.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".wav":
		return wav.Decode(f)
	}

	return nil, beep.Format{}, errInvalidSoundFormat.Fmt(f.Name())
}

// bell synthesizes a short tone that fades out.
func bell() (beep.StreamCloser, beep.Format, error) {
	format := beep.Format{
		SampleRate:  bellSampleRate,
		NumChannels: 2,
		Precision:   2,
	}

	tone, err := generators.SineTone(format.SampleRate, bellFrequency)
	if err != nil {
		return nil, beep.Format{}, err
	}

	total := format.SampleRate.N(bellLength)

	faded := &effects.Volume{
		Streamer: &fade{
			Streamer: beep.Take(total, tone),
			total:    total,
		},
		Base:   2,
		Volume: -1,
	}

	return nopCloser{faded}, format, nil
}

// fade lowers the volume linearly to silence over total samples.
type fade struct {
	beep.Streamer
	total int
	pos   int
}

func (f *fade) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.Streamer.Stream(samples)

	for i := range samples[:n] {
		gain := 1 - float64(f.pos)/float64(f.total)
		samples[i][0] *= gain
		samples[i][1] *= gain
		f.pos++
	}

	return n, ok
}

type nopCloser struct {
	beep.Streamer
}

func (nopCloser) Close() error {
	return nil
}

// Available returns the sounds that can be played: the built-in bell and the
// files in dir with a supported extension, in natural order.
func Available(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !slices.Contains(Extensions, ext) {
			continue
		}

		names = append(names, pathutil.StripExtension(e.Name()))
	}

	sort.Sort(natural.StringSlice(names))

	return append([]string{Bell}, slices.Compact(names)...), nil
}

package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jojocoffee/serenity/internal/osutil"
)

// DateFile keeps the meditated days as a JSON array of ISO date strings.
type DateFile struct {
	path string
}

// NewDateFile returns a DateFile backed by the file at path. The file is not
// created until the first Save.
func NewDateFile(path string) *DateFile {
	return &DateFile{path: path}
}

// Load reads the file. A missing or empty file yields no dates.
func (f *DateFile) Load() ([]string, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	if len(b) == 0 {
		return nil, nil
	}

	var dates []string

	err = json.Unmarshal(b, &dates)

	return dates, err
}

// Save atomically replaces the file contents.
func (f *DateFile) Save(dates []string) error {
	if dates == nil {
		dates = []string{}
	}

	b, err := json.Marshal(dates)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)

	if err = os.MkdirAll(dir, osutil.DirPermission); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*")
	if err != nil {
		return err
	}

	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err = tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), f.path)
}

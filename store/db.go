package store

import (
	"io"

	"github.com/jojocoffee/serenity/internal/apperr"
)

// Backend names accepted by the storage.backend setting.
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

var errUnknownBackend = &apperr.Error{
	Message: "unknown storage backend %q (must be file, bolt or sqlite)",
}

// DateList is a persisted list of ISO date strings.
type DateList interface {
	Load() ([]string, error)
	Save(dates []string) error
}

// Locations tells OpenDateList where each backend keeps its data.
type Locations struct {
	DatesFile  string
	SQLiteFile string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenDateList returns the date list for the named backend. The returned
// closer must be called once the list is no longer needed.
func OpenDateList(
	backend string,
	client *Client,
	loc Locations,
) (DateList, io.Closer, error) {
	switch backend {
	case BackendFile, "":
		return NewDateFile(loc.DatesFile), nopCloser{}, nil
	case BackendBolt:
		return client.Dates(), nopCloser{}, nil
	case BackendSQLite:
		s, err := OpenSQLite(loc.SQLiteFile)
		if err != nil {
			return nil, nil, err
		}

		return s, s, nil
	}

	return nil, nil, errUnknownBackend.Fmt(backend)
}

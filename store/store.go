// Package store persists the timer state and the list of meditated days
package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/jojocoffee/serenity/internal/apperr"
	"github.com/jojocoffee/serenity/internal/osutil"
)

const (
	timerBucket = "timer"
	datesBucket = "dates"
	datesKey    = "meditated_days"
)

var (
	errStoreLocked = &apperr.Error{
		Message: "the database at %s is locked by another serenity process",
	}
)

// Client is a BoltDB database client. A connection is opened for every
// transaction and closed right after, so that a detached alarm process and
// the countdown UI can share the same file.
type Client struct {
	path    string
	timeout time.Duration
}

// NewClient returns a client for the database at dbPath, creating the file and
// its buckets if they do not exist already.
func NewClient(dbPath string) (*Client, error) {
	c := &Client{
		path:    dbPath,
		timeout: 1 * time.Second,
	}

	err := c.update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(timerBucket)); err != nil {
			return err
		}

		_, err := tx.CreateBucketIfNotExists([]byte(datesBucket))

		return err
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Path returns the location of the database file.
func (c *Client) Path() string {
	return c.path
}

// Int64s reads keys in a single transaction. Absent keys are missing from
// the returned map, which is distinct from a stored zero. A value that cannot
// be decoded is reported as absent.
func (c *Client) Int64s(keys ...string) (map[string]int64, error) {
	vals := make(map[string]int64, len(keys))

	err := c.view(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(timerBucket))

		for _, key := range keys {
			b := bkt.Get([]byte(key))
			if b == nil {
				continue
			}

			if len(b) != 8 {
				slog.Warn("ignoring corrupt timer value", "key", key, "len", len(b))
				continue
			}

			vals[key] = int64(binary.BigEndian.Uint64(b))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return vals, nil
}

// Update stores set and removes del in a single transaction, so that other
// processes never observe part of the change. Missing keys in del are
// ignored.
func (c *Client) Update(set map[string]int64, del ...string) error {
	return c.update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(timerBucket))

		for k, v := range set {
			buf := make([]byte, 8)
			binary.BigEndian.PutUint64(buf, uint64(v))

			if err := bkt.Put([]byte(k), buf); err != nil {
				return err
			}
		}

		for _, k := range del {
			if err := bkt.Delete([]byte(k)); err != nil {
				return err
			}
		}

		return nil
	})
}

// Dates returns the list of meditated days kept inside the database.
func (c *Client) Dates() *BoltDates {
	return &BoltDates{c: c}
}

// BoltDates stores the meditated days as a JSON array under a single key.
type BoltDates struct {
	c *Client
}

// Load returns the stored dates, or nil when none were saved yet.
func (d *BoltDates) Load() ([]string, error) {
	var dates []string

	err := d.c.view(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(datesBucket)).Get([]byte(datesKey))
		if len(b) == 0 {
			return nil
		}

		return json.Unmarshal(b, &dates)
	})

	return dates, err
}

// Save replaces the stored dates.
func (d *BoltDates) Save(dates []string) error {
	if dates == nil {
		dates = []string{}
	}

	b, err := json.Marshal(dates)
	if err != nil {
		return err
	}

	return d.c.update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(datesBucket)).Put([]byte(datesKey), b)
	})
}

func (c *Client) update(fn func(tx *bolt.Tx) error) error {
	db, err := c.open()
	if err != nil {
		return err
	}

	err = db.Update(fn)

	return errors.Join(err, db.Close())
}

func (c *Client) view(fn func(tx *bolt.Tx) error) error {
	db, err := c.open()
	if err != nil {
		return err
	}

	err = db.View(fn)

	return errors.Join(err, db.Close())
}

// open creates or opens the database and locks it.
func (c *Client) open() (*bolt.DB, error) {
	db, err := bolt.Open(
		c.path,
		osutil.FilePermission,
		&bolt.Options{Timeout: c.timeout},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errStoreLocked.Fmt(c.path)
		}

		return nil, err
	}

	return db, nil
}

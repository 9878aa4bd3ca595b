package wifidb

import (
	"encoding/binary"
	"time"

	"github.com/go-errors/errors"
	"go.etcd.io/bbolt"
)

type Attempt struct {
	Id        uint64    `json:"id"`
	Ssid      string    `json:"ssid"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
	Succeeded bool      `json:"succeeded"`
	Kind      string    `json:"kind,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// AddAttempt stores the attempt and assigns its id.
func (db *DB) AddAttempt(attempt *Attempt) error {
	err := db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(attemptsBucket)

		id, err := bucket.NextSequence()
		if err != nil {
			return err
		}

		attempt.Id = id

		return putJSON(bucket, itob(id), attempt)
	})
	if err != nil {
		return errors.Errorf("could not add attempt: %v", err)
	}

	return nil
}

// GetAttempts returns up to limit attempts, newest first. A limit of zero
// returns all of them.
func (db *DB) GetAttempts(limit int) ([]*Attempt, error) {
	attempts := []*Attempt{}

	err := db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(attemptsBucket).Cursor()

		for k, v := cursor.Last(); k != nil; k, v = cursor.Prev() {
			if limit > 0 && len(attempts) >= limit {
				break
			}

			attempt := &Attempt{}
			err := getJSON(v, attempt)
			if err != nil {
				return err
			}

			attempts = append(attempts, attempt)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Errorf("could not get attempts: %v", err)
	}

	return attempts, nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

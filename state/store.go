// Package state persists which messages graphmail has already organized.
// The polling server records every moved message ID here so a restarted
// server does not recount or retry earlier moves.
package state

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// movedBucket holds one record per organized message, keyed by message ID.
var movedBucket = []byte("moved")

// Record describes one organized message.
type Record struct {
	MessageID string    `json:"message_id"`
	Folder    string    `json:"folder"`
	MovedAt   time.Time `json:"moved_at"`
}

// Store wraps a bbolt database tracking organized messages.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the state database at the given path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(movedBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create state bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// MarkMoved records that a message was moved into a folder.
func (s *Store) MarkMoved(messageID, folder string) error {
	record := Record{
		MessageID: messageID,
		Folder:    folder,
		MovedAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal state record: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(movedBucket).Put([]byte(messageID), data)
	})
}

// Moved reports whether a message has already been organized.
func (s *Store) Moved(messageID string) bool {
	var found bool
	s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(movedBucket).Get([]byte(messageID)) != nil
		return nil
	})
	return found
}

// Get returns the record for a message, or nil when the message has not
// been organized.
func (s *Store) Get(messageID string) (*Record, error) {
	var record *Record
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(movedBucket).Get([]byte(messageID))
		if data == nil {
			return nil
		}
		record = &Record{}
		return json.Unmarshal(data, record)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read state record: %w", err)
	}
	return record, nil
}

// Count returns the number of organized messages on record.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(movedBucket).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count state records: %w", err)
	}
	return count, nil
}

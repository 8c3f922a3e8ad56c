package buffer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Store is a bbolt-backed queue of writes waiting for the primary store.
// Keys sort by priority, then time, so a cursor walk yields items in replay order.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "buffer"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, bucket: []byte(bucket)}, nil
}

// Enqueue stores an item. Re-enqueueing an item with the same id and timestamp overwrites it.
func (s *Store) Enqueue(item Item) error {
	if err := s.ready(); err != nil {
		return err
	}
	item.normalize()
	item.bucketKey = buildKey(item)

	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(item.bucketKey, payload)
	})
}

// GetBatch returns up to limit items in replay order without removing them.
func (s *Store) GetBatch(limit int) ([]Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	var items []Item
	err := s.db.View(func(tx *bolt.Tx) error {
		return s.each(tx, func(item Item) (bool, error) {
			items = append(items, item)
			return len(items) < limit, nil
		})
	})
	return items, err
}

// Latest returns the most recent pending item for key.
func (s *Store) Latest(key string) (Item, bool, error) {
	if err := s.ready(); err != nil {
		return Item{}, false, err
	}

	var (
		latest Item
		found  bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		return s.each(tx, func(item Item) (bool, error) {
			if item.Key == key && (!found || item.Newer(latest)) {
				latest, found = item, true
			}
			return true, nil
		})
	})
	return latest, found, err
}

// Discard removes every pending item for key.
func (s *Store) Discard(key string) error {
	return s.deleteWhere(func(item Item) bool { return item.Key == key })
}

// Cleanup removes items queued before olderThan.
func (s *Store) Cleanup(olderThan time.Time) error {
	return s.deleteWhere(func(item Item) bool { return item.Timestamp.Before(olderThan) })
}

// Remove deletes the provided item from the buffer.
func (s *Store) Remove(item Item) error {
	if err := s.ready(); err != nil {
		return err
	}
	if len(item.bucketKey) == 0 {
		if item.ID == "" {
			return nil
		}
		return s.deleteWhere(func(other Item) bool { return other.ID == item.ID })
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete(item.bucketKey)
	})
}

// Requeue rewrites an item in place, keeping its position in the queue.
func (s *Store) Requeue(item Item) error {
	item.bucketKey = nil
	return s.Enqueue(item)
}

// Size returns the number of buffered items.
func (s *Store) Size() (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return nil
}

// each walks the bucket in key order, skipping undecodable records, until fn returns false.
func (s *Store) each(tx *bolt.Tx, fn func(item Item) (bool, error)) error {
	c := tx.Bucket(s.bucket).Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var item Item
		if err := json.Unmarshal(v, &item); err != nil {
			continue
		}
		item.bucketKey = append([]byte(nil), k...)
		more, err := fn(item)
		if err != nil || !more {
			return err
		}
	}
	return nil
}

// deleteWhere collects matching keys first; deleting under a live cursor skips entries.
func (s *Store) deleteWhere(match func(Item) bool) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		var doomed [][]byte
		if err := s.each(tx, func(item Item) (bool, error) {
			if match(item) {
				doomed = append(doomed, item.bucketKey)
			}
			return true, nil
		}); err != nil {
			return err
		}
		b := tx.Bucket(s.bucket)
		for _, k := range doomed {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func buildKey(item Item) []byte {
	return []byte(fmt.Sprintf("%d_%020d_%s", item.Priority, item.Timestamp.UnixNano(), item.ID))
}

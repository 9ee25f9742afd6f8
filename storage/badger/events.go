package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
)

// EventRepository implements storage.EventRepository for BadgerDB.
type EventRepository struct {
	backend *Backend
}

var _ storage.EventRepository = (*EventRepository)(nil)

// NewEventRepository creates a new EventRepository.
func NewEventRepository(backend *Backend) (*EventRepository, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &EventRepository{backend: backend}, nil
}

// Close releases repository resources.
func (r *EventRepository) Close() error {
	return nil
}

// AddEvent appends one query event.
func (r *EventRepository) AddEvent(ctx context.Context, event *core.QueryEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Id == 0 {
		event.Id = core.IDFromContent(fmt.Sprintf("%s|%s|%d", event.Query, event.UserID, event.Timestamp.UnixNano()))
	}

	value, err := storage.MarshalQueryEvent(event)
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeEventKey(event.Timestamp, event.Id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetRecentEvents retrieves the N most recent events, newest first.
func (r *EventRepository) GetRecentEvents(ctx context.Context, limit int) ([]*core.QueryEvent, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var events []*core.QueryEvent
	prefix := []byte(queryEventPrefix + ":")

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the last possible event key, then walk backwards.
		seek := append(append([]byte{}, prefix...), 0xff)
		for iter.Seek(seek); iter.Valid() && len(events) < limit; iter.Next() {
			var event *core.QueryEvent
			err := iter.Item().Value(func(val []byte) error {
				var err error
				event, err = storage.UnmarshalQueryEvent(val)
				return err
			})
			if err != nil {
				return err
			}
			events = append(events, event)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return events, nil
}

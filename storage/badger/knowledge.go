package badger

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
)

// KnowledgeRepository implements storage.KnowledgeRepository for BadgerDB.
type KnowledgeRepository struct {
	backend *Backend
}

var _ storage.KnowledgeRepository = (*KnowledgeRepository)(nil)

// NewKnowledgeRepository creates a new KnowledgeRepository.
func NewKnowledgeRepository(backend *Backend) (*KnowledgeRepository, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &KnowledgeRepository{backend: backend}, nil
}

// Close releases repository resources.
func (r *KnowledgeRepository) Close() error {
	return nil
}

// AddRecords adds one or more knowledge records to storage.
// IDs are content-based, so re-adding an identical record overwrites in place.
func (r *KnowledgeRepository) AddRecords(ctx context.Context, records ...*core.KnowledgeRecord) ([]*core.KnowledgeRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if record.Id == 0 {
				record.Id = record.ContentID()
			}
			if record.Category == "" {
				record.Category = core.DefaultCategory
			}
			if record.InsertedAt.IsZero() {
				record.InsertedAt = time.Now().UTC()
			}
			record.UpdatedAt = record.InsertedAt

			value, err := storage.MarshalKnowledgeRecord(record)
			if err != nil {
				return err
			}
			if err := tx.Set(makeKnowledgeKey(record.Id), value); err != nil {
				return err
			}

			if err := r.writeIndices(tx, record); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// UpdateRecords updates existing knowledge records.
func (r *KnowledgeRepository) UpdateRecords(ctx context.Context, records ...*core.KnowledgeRecord) ([]*core.KnowledgeRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			key := makeKnowledgeKey(record.Id)

			old, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			record.UpdatedAt = time.Now().UTC()

			value, err := storage.MarshalKnowledgeRecord(record)
			if err != nil {
				return err
			}
			if err := tx.Set(key, value); err != nil {
				return err
			}

			if err := r.deleteIndices(tx, old); err != nil {
				return err
			}
			if err := r.writeIndices(tx, record); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// DeleteRecords removes knowledge records and their index entries.
func (r *KnowledgeRepository) DeleteRecords(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeKnowledgeKey(id)

			record, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
			if err := r.deleteIndices(tx, record); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetRecord retrieves a single knowledge record by ID.
func (r *KnowledgeRepository) GetRecord(ctx context.Context, id core.ID) (*core.KnowledgeRecord, error) {
	var record *core.KnowledgeRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = r.readRecord(tx, makeKnowledgeKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, storage.ErrNotFound
	}

	return record, nil
}

// GetRecords retrieves multiple knowledge records by their IDs.
// Missing records are skipped without error.
func (r *KnowledgeRepository) GetRecords(ctx context.Context, ids ...core.ID) ([]*core.KnowledgeRecord, error) {
	records := make([]*core.KnowledgeRecord, 0, len(ids))

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := r.readRecord(tx, makeKnowledgeKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				records = append(records, record)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// GetAllRecords retrieves every knowledge record in key order.
func (r *KnowledgeRepository) GetAllRecords(ctx context.Context) ([]*core.KnowledgeRecord, error) {
	var records []*core.KnowledgeRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(knowledgeRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.KnowledgeRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalKnowledgeRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// GetRecordsByKeywords retrieves records whose keyword set intersects tokens.
// Results are deduplicated and returned in ascending ID order, which keeps
// first-match tie-breaking deterministic across calls.
func (r *KnowledgeRepository) GetRecordsByKeywords(ctx context.Context, tokens []string) ([]*core.KnowledgeRecord, error) {
	seen := make(map[core.ID]bool)
	var ids []core.ID

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, token := range tokens {
			prefix := makePartialKeywordKey(token)
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			opts.PrefetchValues = false
			iter := tx.NewIterator(opts)

			for iter.Rewind(); iter.Valid(); iter.Next() {
				id, ok := idFromIndexKey(iter.Item().Key())
				if !ok || seen[id] {
					continue
				}
				seen[id] = true
				ids = append(ids, id)
			}
			iter.Close()
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.Sort(ids)
	return r.GetRecords(ctx, ids...)
}

// GetRecordsByCategory retrieves records carrying the given category label.
func (r *KnowledgeRepository) GetRecordsByCategory(ctx context.Context, category string) ([]*core.KnowledgeRecord, error) {
	var ids []core.ID

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialCategoryKey(category)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			id, ok := idFromIndexKey(iter.Item().Key())
			if ok {
				ids = append(ids, id)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.Sort(ids)
	return r.GetRecords(ctx, ids...)
}

// GetRecordPage retrieves up to limit records starting after cursor.
// The cursor is the storage key of the last record returned; an empty cursor
// starts from the beginning. The returned cursor is empty when the scan is
// known to be complete.
func (r *KnowledgeRepository) GetRecordPage(ctx context.Context, cursor string, limit int) ([]*core.KnowledgeRecord, string, error) {
	if limit <= 0 {
		return nil, "", storage.ErrInvalidQuery
	}
	prefix := []byte(knowledgeRecordPrefix + ":")
	if cursor != "" && !bytes.HasPrefix([]byte(cursor), prefix) {
		return nil, "", storage.ErrInvalidCursor
	}

	var records []*core.KnowledgeRecord
	next := ""

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		if cursor == "" {
			iter.Rewind()
		} else {
			iter.Seek([]byte(cursor))
			// The cursor key was already returned in the previous page.
			if iter.Valid() && bytes.Equal(iter.Item().Key(), []byte(cursor)) {
				iter.Next()
			}
		}

		for ; iter.Valid() && len(records) < limit; iter.Next() {
			var record *core.KnowledgeRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalKnowledgeRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			records = append(records, record)
			next = string(iter.Item().Key())
		}

		// If the iterator is exhausted, the scan is complete.
		if !iter.Valid() {
			next = ""
		}
		return nil
	}, false)
	if err != nil {
		return nil, "", err
	}

	return records, next, nil
}

// readRecord reads and unmarshals a record within a transaction.
// Returns nil (no error) when the key does not exist.
func (r *KnowledgeRepository) readRecord(tx *badger.Txn, key []byte) (*core.KnowledgeRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.KnowledgeRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalKnowledgeRecord(val)
		return err
	})
	return record, err
}

// writeIndices writes keyword and category index entries for a record.
func (r *KnowledgeRepository) writeIndices(tx *badger.Txn, record *core.KnowledgeRecord) error {
	for _, token := range record.Keywords {
		if err := tx.Set(makeKeywordKey(token, record.Id), nil); err != nil {
			return err
		}
	}
	return tx.Set(makeCategoryKey(record.Category, record.Id), nil)
}

// deleteIndices removes keyword and category index entries for a record.
func (r *KnowledgeRepository) deleteIndices(tx *badger.Txn, record *core.KnowledgeRecord) error {
	for _, token := range record.Keywords {
		if err := tx.Delete(makeKeywordKey(token, record.Id)); err != nil {
			return err
		}
	}
	return tx.Delete(makeCategoryKey(record.Category, record.Id))
}

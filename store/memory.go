package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pitabwire/util"
	"gorm.io/gorm"

	"github.com/pitabwire/locset/data"
)

// memoryStore is a map backed RecordStore for tests and embedded use. It
// mirrors the postgres store's semantics: missing rows surface as
// gorm.ErrRecordNotFound and the (set, locale) pair is unique for anchored
// records.
type memoryStore struct {
	mu      sync.RWMutex
	records map[string]*data.ContentRecord
}

// NewMemoryStore creates an empty in-memory RecordStore.
func NewMemoryStore() RecordStore {
	return &memoryStore{records: make(map[string]*data.ContentRecord)}
}

func copyRecord(record *data.ContentRecord) *data.ContentRecord {
	duplicate := *record
	duplicate.Content = record.Content.DeepCopy()
	return &duplicate
}

func (ms *memoryStore) GetByItemID(_ context.Context, contentItemID string) (*data.ContentRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if record, ok := ms.records[contentItemID]; ok {
		return copyRecord(record), nil
	}

	return nil, gorm.ErrRecordNotFound
}

func (ms *memoryStore) GetBySetAndLocale(_ context.Context, setID, locale string) (*data.ContentRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	for _, record := range ms.records {
		if record.LocalizationSet == setID && record.Locale == locale {
			return copyRecord(record), nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func (ms *memoryStore) GetAllBySet(_ context.Context, setID string) ([]*data.ContentRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var members []*data.ContentRecord
	for _, record := range ms.records {
		if record.LocalizationSet == setID {
			members = append(members, copyRecord(record))
		}
	}

	return members, nil
}

func (ms *memoryStore) GetBySetsAndLocale(
	_ context.Context, setIDs []string, locale string,
) ([]*data.ContentRecord, error) {
	wanted := make(map[string]struct{}, len(setIDs))
	for _, setID := range setIDs {
		wanted[setID] = struct{}{}
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var members []*data.ContentRecord
	for _, record := range ms.records {
		if _, ok := wanted[record.LocalizationSet]; ok && record.Locale == locale {
			members = append(members, copyRecord(record))
		}
	}

	return members, nil
}

func (ms *memoryStore) IndexEntriesForSets(_ context.Context, setIDs []string) ([]data.LocalizationIndexEntry, error) {
	wanted := make(map[string]struct{}, len(setIDs))
	for _, setID := range setIDs {
		wanted[setID] = struct{}{}
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var entries []data.LocalizationIndexEntry
	for _, record := range ms.records {
		if _, ok := wanted[record.LocalizationSet]; ok {
			entries = append(entries, record.IndexEntry())
		}
	}

	return entries, nil
}

func (ms *memoryStore) Save(ctx context.Context, record *data.ContentRecord) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if record.ContentItemID == "" {
		record.ContentItemID = util.IDString()
	}
	if record.ID == "" {
		record.ID = util.IDString()
	}

	now := time.Now()
	if record.Version <= 0 {
		record.CreatedAt = now
		record.Version = 1
	} else {
		record.Version++
	}
	record.ModifiedAt = now

	// Enforce the unique (set, locale) constraint the SQL schema carries.
	if record.Localized() {
		for _, existing := range ms.records {
			if existing.ContentItemID == record.ContentItemID {
				continue
			}
			if existing.LocalizationSet == record.LocalizationSet && existing.Locale == record.Locale {
				return fmt.Errorf("memory store: duplicate member for set %s at locale %s",
					record.LocalizationSet, record.Locale)
			}
		}
	}

	ms.records[record.ContentItemID] = copyRecord(record)
	util.Log(ctx).WithField("content_item_id", record.ContentItemID).Debug("record saved")
	return nil
}

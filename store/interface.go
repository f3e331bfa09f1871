// Package store holds the durable collection of content records. It exposes a
// narrow query surface over the two indexed localization fields plus the
// content item id, together with a save/upsert operation.
package store

import (
	"context"

	"github.com/pitabwire/locset/data"
)

// RecordStore is the durable home of content records. Lookups surface
// missing rows as gorm.ErrRecordNotFound style errors; callers distinguish
// absence from I/O failure via data.ErrorIsNoRows.
type RecordStore interface {
	// GetByItemID fetches the record carrying the supplied content item id.
	GetByItemID(ctx context.Context, contentItemID string) (*data.ContentRecord, error)

	// GetBySetAndLocale fetches the single member of a localization set at the
	// given locale.
	GetBySetAndLocale(ctx context.Context, setID, locale string) (*data.ContentRecord, error)

	// GetAllBySet fetches every member of a localization set, unordered.
	GetAllBySet(ctx context.Context, setID string) ([]*data.ContentRecord, error)

	// GetBySetsAndLocale fetches members across many sets filtered to one locale.
	GetBySetsAndLocale(ctx context.Context, setIDs []string, locale string) ([]*data.ContentRecord, error)

	// IndexEntriesForSets projects the members of the supplied sets onto their
	// localization index form.
	IndexEntriesForSets(ctx context.Context, setIDs []string) ([]data.LocalizationIndexEntry, error)

	// Save creates or updates a record.
	Save(ctx context.Context, record *data.ContentRecord) error
}

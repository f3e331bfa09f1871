package data

import (
	"context"
	"sort"
	"time"

	"github.com/pitabwire/util"
	"github.com/rs/xid"
	"gorm.io/gorm"
)

type BaseModelI interface {
	GetID() string
	GetVersion() uint
}

// BaseModel base table struct to be extended by other models.
type BaseModel struct {
	ID         string `gorm:"type:varchar(50);primary_key"`
	CreatedAt  time.Time
	ModifiedAt time.Time
	Version    uint           `gorm:"DEFAULT 0"`
	DeletedAt  gorm.DeletedAt `sql:"index"`
}

func (model *BaseModel) GetID() string {
	return model.ID
}

func (model *BaseModel) GetVersion() uint {
	return model.Version
}

// GenID creates a new id for model if its not existent.
func (model *BaseModel) GenID(_ context.Context) {
	if model.ID == "" {
		model.ID = util.IDString()
	}
}

// ValidXID Validates that the supplied string is an xid.
func (model *BaseModel) ValidXID(id string) bool {
	_, err := xid.FromString(id)
	return err == nil
}

// BeforeSave Ensures we update the record time stamps.
func (model *BaseModel) BeforeSave(db *gorm.DB) error {
	return model.BeforeCreate(db)
}

func (model *BaseModel) BeforeCreate(db *gorm.DB) error {
	if model.Version <= 0 {
		model.CreatedAt = time.Now()
		model.ModifiedAt = time.Now()
		model.Version = 1
	}

	model.GenID(db.Statement.Context)
	return nil
}

// BeforeUpdate Updates time stamp every time we update a record.
func (model *BaseModel) BeforeUpdate(_ *gorm.DB) error {
	model.ModifiedAt = time.Now()
	model.Version++
	return nil
}

// ContentRecord is an opaque content entity. Its payload is a map of named
// sub-parts keyed by part name; only the localization fields are ever written
// by this module, the rest of the payload travels untouched.
//
// The unique partial index on (localization_set, locale) guarantees at most
// one member per locale within a set even when two writers race past the
// existing-member check.
type ContentRecord struct {
	BaseModel

	ContentItemID string  `gorm:"type:varchar(50);index"`
	ContentType   string  `gorm:"type:varchar(128)"`
	Content       JSONMap `gorm:"type:jsonb"`

	LocalizationSet string `gorm:"type:varchar(50);index;uniqueIndex:idx_content_records_set_locale,where:localization_set <> ''"`
	Locale          string `gorm:"type:varchar(35);uniqueIndex:idx_content_records_set_locale"`
}

func (record *ContentRecord) BeforeCreate(db *gorm.DB) error {
	if record.ContentItemID == "" {
		record.ContentItemID = util.IDString()
	}

	return record.BaseModel.BeforeCreate(db)
}

// Localized reports whether the record has been anchored into a localization set.
func (record *ContentRecord) Localized() bool {
	return record.LocalizationSet != ""
}

// IndexEntry projects the record onto its localization index form.
func (record *ContentRecord) IndexEntry() LocalizationIndexEntry {
	return LocalizationIndexEntry{
		ContentItemID:   record.ContentItemID,
		LocalizationSet: record.LocalizationSet,
		Locale:          record.Locale,
	}
}

// Parts lists the record's named sub-parts in a stable order.
func (record *ContentRecord) Parts() []Part {
	if len(record.Content) == 0 {
		return nil
	}

	names := make([]string, 0, len(record.Content))
	for name := range record.Content {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]Part, 0, len(names))
	for _, name := range names {
		parts = append(parts, Part{Name: name, Payload: record.Content[name]})
	}

	return parts
}

// Clone produces an unsaved deep copy of the record. Identity fields are
// cleared so that persistence assigns fresh ones; the caller stamps the
// localization fields before saving.
func (record *ContentRecord) Clone() *ContentRecord {
	return &ContentRecord{
		ContentType:     record.ContentType,
		Content:         record.Content.DeepCopy(),
		LocalizationSet: record.LocalizationSet,
		Locale:          record.Locale,
	}
}

// LocalizationIndexEntry is the indexed projection of a content record used
// for localization set resolution. Entries are rebuilt from the record columns
// on every query, never stored separately.
type LocalizationIndexEntry struct {
	ContentItemID   string
	LocalizationSet string
	Locale          string
}

// Part is one named sub-part of a content record's payload.
type Part struct {
	Name    string
	Payload any
}

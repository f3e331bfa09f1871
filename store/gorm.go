package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pitabwire/locset/data"
)

// gormStore is the postgres backed RecordStore.
type gormStore struct {
	db   *gorm.DB
	repo Repository[*data.ContentRecord]
}

// NewGormStore wraps an existing gorm handle as a RecordStore.
func NewGormStore(db *gorm.DB) (RecordStore, error) {
	repo, err := NewRepository(db, func() *data.ContentRecord { return &data.ContentRecord{} })
	if err != nil {
		return nil, err
	}

	return &gormStore{db: db, repo: repo}, nil
}

// Connect opens a postgres backed RecordStore. The connection runs through a
// pgx pool bridged into gorm via the stdlib driver and the record schema is
// migrated on the way in so the unique (set, locale) index exists before any
// write.
func Connect(ctx context.Context, databaseURL string) (RecordStore, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err = db.WithContext(ctx).AutoMigrate(&data.ContentRecord{}); err != nil {
		return nil, err
	}

	return NewGormStore(db)
}

func (gs *gormStore) GetByItemID(ctx context.Context, contentItemID string) (*data.ContentRecord, error) {
	return gs.repo.GetFirstBy(ctx, map[string]any{"content_item_id": contentItemID})
}

func (gs *gormStore) GetBySetAndLocale(ctx context.Context, setID, locale string) (*data.ContentRecord, error) {
	return gs.repo.GetFirstBy(ctx, map[string]any{
		"localization_set": setID,
		"locale":           locale,
	})
}

func (gs *gormStore) GetAllBySet(ctx context.Context, setID string) ([]*data.ContentRecord, error) {
	return gs.repo.GetAllBy(ctx, map[string]any{"localization_set": setID})
}

func (gs *gormStore) GetBySetsAndLocale(
	ctx context.Context, setIDs []string, locale string,
) ([]*data.ContentRecord, error) {
	if len(setIDs) == 0 {
		return nil, nil
	}

	return gs.repo.GetAllBy(ctx, map[string]any{
		"localization_set": setIDs,
		"locale":           locale,
	})
}

func (gs *gormStore) IndexEntriesForSets(ctx context.Context, setIDs []string) ([]data.LocalizationIndexEntry, error) {
	if len(setIDs) == 0 {
		return nil, nil
	}

	var entries []data.LocalizationIndexEntry
	err := gs.db.WithContext(ctx).
		Model(&data.ContentRecord{}).
		Select("content_item_id", "localization_set", "locale").
		Where("localization_set IN ?", setIDs).
		Find(&entries).Error

	return entries, err
}

func (gs *gormStore) Save(ctx context.Context, record *data.ContentRecord) error {
	return gs.repo.Save(ctx, record)
}

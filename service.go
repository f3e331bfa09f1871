package locset

import (
	"context"
	"fmt"
	"sync"

	"github.com/pitabwire/util"

	"github.com/pitabwire/locset/data"
	"github.com/pitabwire/locset/locale"
	"github.com/pitabwire/locset/store"
	"github.com/pitabwire/locset/workerpool"
)

// Service orchestrates localization set membership: it looks up set members,
// creates translations behind the handler pipeline and resolves per-set
// representatives. An instance is scoped to stay for the lifetime of the
// application.
type Service struct {
	name      string
	cfg       *ConfigurationLocalization
	records   store.RecordStore
	directory locale.Directory
	ids       IDGenerator
	pipeline  *Pipeline
	workMan   workerpool.Manager

	// setLocks serialises the member-check/persist window per set so two
	// concurrent Localize calls cannot both slip past the existing-member
	// check. The store's unique index backs this up across processes.
	setLocks sync.Map
}

// SetItemRef pairs a localization set id with its resolved content item id.
type SetItemRef struct {
	SetID         string
	ContentItemID string
}

// Option setup helpers that configure different aspects of the service.
type Option func(ctx context.Context, s *Service)

// NewService creates a new localization service with the name and supplied
// options. Unset collaborators fall back to environment driven defaults: the
// locale directory comes from configuration, ids from xid and work fans out
// on a private pool.
func NewService(ctx context.Context, name string, opts ...Option) (*Service, error) {
	service := &Service{name: name}

	for _, opt := range opts {
		opt(ctx, service)
	}

	if service.cfg == nil {
		cfg, err := ConfigFromEnv[ConfigurationLocalization]()
		if err != nil {
			return nil, err
		}
		service.cfg = &cfg
	}

	if service.directory == nil {
		directory, err := locale.NewDirectory(service.cfg.GetDefaultLocale(), service.cfg.GetSupportedLocales()...)
		if err != nil {
			return nil, err
		}
		service.directory = directory
	}

	if service.records == nil {
		if service.cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("a record store or DATABASE_URL is required")
		}

		records, err := store.Connect(ctx, service.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		service.records = records
	}

	if service.ids == nil {
		service.ids = XIDGenerator()
	}

	if service.pipeline == nil {
		service.pipeline = NewPipeline(nil, nil)
	}

	if service.workMan == nil {
		workMan, err := workerpool.NewManager(ctx, service.cfg.GetSyncWorkerCount())
		if err != nil {
			return nil, err
		}
		service.workMan = workMan
	}

	return service, nil
}

// Name of the service instance.
func (s *Service) Name() string {
	return s.name
}

// Directory exposes the locale directory the service validates against.
func (s *Service) Directory() locale.Directory {
	return s.directory
}

// Stop releases the service's worker pool.
func (s *Service) Stop(_ context.Context) {
	s.workMan.Shutdown()
}

// GetRecord fetches the single member of a localization set at the given
// locale. Absence is a nil result, not an error.
func (s *Service) GetRecord(ctx context.Context, setID, loc string) (*data.ContentRecord, error) {
	record, err := s.records.GetBySetAndLocale(ctx, setID, locale.Canonical(loc))
	if err != nil {
		if data.ErrorIsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}

	return record, nil
}

// GetRecordsForSet fetches every member of a localization set, unordered.
func (s *Service) GetRecordsForSet(ctx context.Context, setID string) ([]*data.ContentRecord, error) {
	return s.records.GetAllBySet(ctx, setID)
}

// GetRecordsForSets fetches members across many sets filtered to one locale.
func (s *Service) GetRecordsForSets(
	ctx context.Context, setIDs []string, loc string,
) ([]*data.ContentRecord, error) {
	return s.records.GetBySetsAndLocale(ctx, setIDs, locale.Canonical(loc))
}

// Localize creates the translation of source at targetLocale, returning the
// existing member unchanged when one is already present. A source that was
// never localized is first anchored as its own set's member at the default
// locale. The handler pipeline runs its before phase ahead of persistence and
// its after phase once the clone is saved.
func (s *Service) Localize(
	ctx context.Context, source *data.ContentRecord, targetLocale string,
) (*data.ContentRecord, error) {
	target := locale.Canonical(targetLocale)
	if !s.directory.IsSupported(target) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocale, targetLocale)
	}

	if !source.Localized() {
		source.LocalizationSet = s.ids.NewID()
		source.Locale = s.directory.DefaultLocale()
		if err := s.records.Save(ctx, source); err != nil {
			return nil, err
		}

		util.Log(ctx).
			WithField("localization_set", source.LocalizationSet).
			WithField("content_item_id", source.ContentItemID).
			Debug("anchored record into a fresh localization set")
	}

	setID := source.LocalizationSet

	mu := s.setLock(setID)
	mu.Lock()
	defer mu.Unlock()

	existing, err := s.GetRecord(ctx, setID, target)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	clone := source.Clone()
	clone.ContentItemID = s.ids.NewID()
	clone.Locale = target
	clone.LocalizationSet = setID

	lc := &LocalizationContext{
		Record: clone,
		Source: source,
		SetID:  setID,
		Locale: target,
	}

	s.pipeline.RunBefore(ctx, lc)

	if err = s.records.Save(ctx, clone); err != nil {
		return nil, err
	}

	s.pipeline.RunAfter(ctx, lc)

	return clone, nil
}

// DeduplicateRecords reduces an arbitrary record collection to one
// representative per localization set, resolved for the ambient request
// locale falling back to the directory default. Representatives are drawn
// from the input, never re-fetched. Records outside any set pass through
// keyed by their content item id.
func (s *Service) DeduplicateRecords(
	ctx context.Context, records []*data.ContentRecord,
) map[string]*data.ContentRecord {
	requested := s.requestLocale(ctx)

	entries := make([]data.LocalizationIndexEntry, 0, len(records))
	byItemID := make(map[string]*data.ContentRecord, len(records))

	deduplicated := make(map[string]*data.ContentRecord, len(records))

	for _, record := range records {
		if !record.Localized() {
			deduplicated[record.ContentItemID] = record
			continue
		}

		entries = append(entries, record.IndexEntry())
		byItemID[record.ContentItemID] = record
	}

	for setID, entry := range ResolveSets(entries, requested, s.directory.DefaultLocale()) {
		if record, ok := byItemID[entry.ContentItemID]; ok {
			deduplicated[setID] = record
		}
	}

	return deduplicated
}

// FirstItemIDsForSets resolves the representative content item id of each
// supplied set for the ambient request locale and returns the pairs in the
// caller's setIDs order, skipping sets with no resolvable entry.
func (s *Service) FirstItemIDsForSets(ctx context.Context, setIDs []string) ([]SetItemRef, error) {
	entries, err := s.records.IndexEntriesForSets(ctx, setIDs)
	if err != nil {
		return nil, err
	}

	resolved := ResolveSetsOrdered(entries, setIDs, s.requestLocale(ctx), s.directory.DefaultLocale())

	refs := make([]SetItemRef, 0, len(resolved))
	for _, entry := range resolved {
		refs = append(refs, SetItemRef{SetID: entry.LocalizationSet, ContentItemID: entry.ContentItemID})
	}

	return refs, nil
}

// SyncFields merges a partial field patch into every member of a set and
// persists the changed members. Arrays in the patch replace existing arrays
// wholesale. Saves fan out on the worker pool; the joined error carries every
// failed save.
func (s *Service) SyncFields(ctx context.Context, setID string, patch map[string]any) error {
	members, err := s.records.GetAllBySet(ctx, setID)
	if err != nil {
		return err
	}

	tasks := make([]func(ctx context.Context) error, 0, len(members))
	for _, member := range members {
		merged, changed, mergeErr := data.MergePatch(member.Content, patch)
		if mergeErr != nil {
			return mergeErr
		}
		if !changed {
			continue
		}

		record := member
		record.Content = merged
		tasks = append(tasks, func(taskCtx context.Context) error {
			return s.records.Save(taskCtx, record)
		})
	}

	return workerpool.Await(ctx, s.workMan, tasks...)
}

// requestLocale reads the ambient request locale, falling back to the
// directory default when the context carries none.
func (s *Service) requestLocale(ctx context.Context) string {
	if requested := LocaleFromContext(ctx); requested != "" {
		return requested
	}

	return s.directory.DefaultLocale()
}

func (s *Service) setLock(setID string) *sync.Mutex {
	mu, _ := s.setLocks.LoadOrStore(setID, &sync.Mutex{})
	lock, _ := mu.(*sync.Mutex)
	return lock
}

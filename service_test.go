package locset_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pitabwire/locset"
	"github.com/pitabwire/locset/data"
	"github.com/pitabwire/locset/store"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	records store.RecordStore
	service *locset.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.records = store.NewMemoryStore()

	service, err := locset.NewService(s.ctx, "locset tests",
		locset.WithConfiguration(&locset.ConfigurationLocalization{
			DefaultLocale:    "en",
			SupportedLocales: []string{"en", "fr", "es", "de", "fr-CA"},
			SyncWorkerCount:  2,
		}),
		locset.WithRecordStore(s.records),
	)
	s.Require().NoError(err)
	s.service = service
}

func (s *ServiceTestSuite) TearDownTest() {
	if s.service != nil {
		s.service.Stop(s.ctx)
	}
}

func (s *ServiceTestSuite) newPage(body string) *data.ContentRecord {
	record := &data.ContentRecord{
		ContentType: "page",
		Content:     data.JSONMap{"body": body},
	}
	s.Require().NoError(s.records.Save(s.ctx, record))
	return record
}

func (s *ServiceTestSuite) TestFirstLocalizationAnchorsSource() {
	source := s.newPage("hello")
	s.Require().False(source.Localized())

	clone, err := s.service.Localize(s.ctx, source, "fr")
	s.Require().NoError(err)

	s.Require().True(source.Localized(), "source should be anchored into its own set")
	s.Equal("en", source.Locale, "source takes the directory default locale")
	s.Equal(source.LocalizationSet, clone.LocalizationSet)
	s.Equal("fr", clone.Locale)
	s.NotEqual(source.ContentItemID, clone.ContentItemID)

	members, err := s.service.GetRecordsForSet(s.ctx, source.LocalizationSet)
	s.Require().NoError(err)
	s.Len(members, 2, "the set holds exactly the anchor and the new translation")
}

func (s *ServiceTestSuite) TestLocalizeIsIdempotent() {
	source := s.newPage("hello")

	first, err := s.service.Localize(s.ctx, source, "fr")
	s.Require().NoError(err)

	second, err := s.service.Localize(s.ctx, source, "fr")
	s.Require().NoError(err)

	s.Equal(first.ContentItemID, second.ContentItemID, "repeat localization returns the existing member")

	members, err := s.service.GetRecordsForSet(s.ctx, source.LocalizationSet)
	s.Require().NoError(err)
	s.Len(members, 2, "no duplicate member was created")
}

func (s *ServiceTestSuite) TestLocalizeToDefaultLocaleReturnsSource() {
	source := s.newPage("hello")

	result, err := s.service.Localize(s.ctx, source, "en")
	s.Require().NoError(err)

	s.Equal(source.ContentItemID, result.ContentItemID, "the anchor is the identity translation")
}

func (s *ServiceTestSuite) TestUnsupportedLocaleMutatesNothing() {
	source := s.newPage("hello")

	_, err := s.service.Localize(s.ctx, source, "xx-XX")
	s.Require().ErrorIs(err, locset.ErrUnsupportedLocale)

	s.False(source.Localized(), "a failed localize never anchors the source")

	reloaded, err := s.records.GetByItemID(s.ctx, source.ContentItemID)
	s.Require().NoError(err)
	s.False(reloaded.Localized())
}

func (s *ServiceTestSuite) TestLocalizeClonesDeeply() {
	source := &data.ContentRecord{
		ContentType: "page",
		Content:     data.JSONMap{"body": "hello", "meta": map[string]any{"author": "ann"}},
	}
	s.Require().NoError(s.records.Save(s.ctx, source))

	clone, err := s.service.Localize(s.ctx, source, "de")
	s.Require().NoError(err)

	meta, ok := clone.Content["meta"].(map[string]any)
	s.Require().True(ok)
	meta["author"] = "ben"

	sourceMeta, ok := source.Content["meta"].(map[string]any)
	s.Require().True(ok)
	s.Equal("ann", sourceMeta["author"], "clone mutations stay off the source")
}

func (s *ServiceTestSuite) TestGetRecordAbsenceIsNotAnError() {
	record, err := s.service.GetRecord(s.ctx, "no-such-set", "fr")
	s.Require().NoError(err)
	s.Nil(record)
}

func (s *ServiceTestSuite) TestGetRecordsForSetsFiltersByLocale() {
	a := s.newPage("a")
	b := s.newPage("b")

	_, err := s.service.Localize(s.ctx, a, "fr")
	s.Require().NoError(err)
	_, err = s.service.Localize(s.ctx, b, "fr")
	s.Require().NoError(err)
	_, err = s.service.Localize(s.ctx, b, "de")
	s.Require().NoError(err)

	records, err := s.service.GetRecordsForSets(s.ctx, []string{a.LocalizationSet, b.LocalizationSet}, "FR")
	s.Require().NoError(err)
	s.Len(records, 2)
	for _, record := range records {
		s.Equal("fr", record.Locale)
	}
}

func (s *ServiceTestSuite) TestDeduplicateRecordsUsesRequestLocale() {
	source := s.newPage("hello")
	clone, err := s.service.Localize(s.ctx, source, "fr")
	s.Require().NoError(err)

	loner := &data.ContentRecord{ContentType: "page", Content: data.JSONMap{"body": "solo"}}
	s.Require().NoError(s.records.Save(s.ctx, loner))

	ctx := locset.LocaleToContext(s.ctx, "fr")
	deduplicated := s.service.DeduplicateRecords(ctx, []*data.ContentRecord{source, clone, loner})

	s.Require().Len(deduplicated, 2)
	s.Equal(clone.ContentItemID, deduplicated[source.LocalizationSet].ContentItemID)
	s.Equal(loner.ContentItemID, deduplicated[loner.ContentItemID].ContentItemID)

	// Without a request locale the directory default wins.
	deduplicated = s.service.DeduplicateRecords(s.ctx, []*data.ContentRecord{source, clone})
	s.Equal(source.ContentItemID, deduplicated[source.LocalizationSet].ContentItemID)
}

func (s *ServiceTestSuite) TestFirstItemIDsForSetsPreservesOrder() {
	pages := []*data.ContentRecord{s.newPage("1"), s.newPage("2"), s.newPage("3")}
	clonesBySet := make(map[string]*data.ContentRecord, len(pages))

	for _, page := range pages {
		clone, err := s.service.Localize(s.ctx, page, "fr")
		s.Require().NoError(err)
		clonesBySet[page.LocalizationSet] = clone
	}

	setIDs := []string{
		pages[2].LocalizationSet,
		pages[0].LocalizationSet,
		pages[1].LocalizationSet,
	}

	ctx := locset.LocaleToContext(s.ctx, "fr")
	refs, err := s.service.FirstItemIDsForSets(ctx, setIDs)
	s.Require().NoError(err)

	s.Require().Len(refs, 3)
	for i, setID := range setIDs {
		s.Equal(setID, refs[i].SetID)
		s.Equal(clonesBySet[setID].ContentItemID, refs[i].ContentItemID)
	}
}

func (s *ServiceTestSuite) TestFirstItemIDsForSetsSkipsUnresolvableSets() {
	page := s.newPage("1")
	_, err := s.service.Localize(s.ctx, page, "fr")
	s.Require().NoError(err)

	refs, err := s.service.FirstItemIDsForSets(s.ctx, []string{"ghost", page.LocalizationSet})
	s.Require().NoError(err)

	s.Require().Len(refs, 1)
	s.Equal(page.LocalizationSet, refs[0].SetID)
}

func (s *ServiceTestSuite) TestSyncFieldsReplacesArrays() {
	source := &data.ContentRecord{
		ContentType: "page",
		Content:     data.JSONMap{"body": "hello", "tags": []any{"a", "b"}},
	}
	s.Require().NoError(s.records.Save(s.ctx, source))

	_, err := s.service.Localize(s.ctx, source, "fr")
	s.Require().NoError(err)

	err = s.service.SyncFields(s.ctx, source.LocalizationSet, map[string]any{"tags": []any{"x"}})
	s.Require().NoError(err)

	members, err := s.service.GetRecordsForSet(s.ctx, source.LocalizationSet)
	s.Require().NoError(err)
	s.Require().Len(members, 2)

	for _, member := range members {
		s.Equal([]any{"x"}, member.Content["tags"], "arrays replace wholesale, never append")
		s.Equal("hello", member.Content["body"], "untouched fields survive the sync")
	}
}

func (s *ServiceTestSuite) TestHandlersWrapPersistence() {
	var trace []string
	a := &recordingHandler{name: "A", trace: &trace}
	b := &recordingHandler{name: "B", trace: &trace}

	service, err := locset.NewService(s.ctx, "locset handler tests",
		locset.WithConfiguration(&locset.ConfigurationLocalization{
			DefaultLocale:    "en",
			SupportedLocales: []string{"en", "fr"},
			SyncWorkerCount:  1,
		}),
		locset.WithRecordStore(store.NewMemoryStore()),
		locset.WithHandlers(a, b),
		locset.WithUUIDGenerator(),
	)
	s.Require().NoError(err)
	defer service.Stop(s.ctx)

	source := &data.ContentRecord{ContentType: "page", Content: data.JSONMap{"body": "hello"}}

	_, err = service.Localize(s.ctx, source, "fr")
	s.Require().NoError(err)

	s.Equal([]string{"A:before", "B:before", "B:after", "A:after"}, trace)
}

// Package handlers ships ready made localization handlers for common
// extension points of the pipeline.
package handlers

import (
	"context"

	"github.com/blevesearch/bleve/v2"

	"github.com/pitabwire/locset"
)

// SearchIndexHandler indexes every persisted translation into a bleve index
// so that search reflects new set members without a separate crawl. It only
// acts in the after phase, once the clone is durable.
type SearchIndexHandler struct {
	index bleve.Index
}

// NewSearchIndexHandler wraps an existing bleve index.
func NewSearchIndexHandler(index bleve.Index) *SearchIndexHandler {
	return &SearchIndexHandler{index: index}
}

func (h *SearchIndexHandler) Name() string {
	return "search-index"
}

func (h *SearchIndexHandler) BeforeComplete(_ context.Context, _ *locset.LocalizationContext) error {
	return nil
}

func (h *SearchIndexHandler) AfterComplete(_ context.Context, lc *locset.LocalizationContext) error {
	document := map[string]any{
		"content_item_id":  lc.Record.ContentItemID,
		"content_type":     lc.Record.ContentType,
		"locale":           lc.Record.Locale,
		"localization_set": lc.Record.LocalizationSet,
	}
	for name, payload := range lc.Record.Content {
		document[name] = payload
	}

	return h.index.Index(lc.Record.ContentItemID, document)
}

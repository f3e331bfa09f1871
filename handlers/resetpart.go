package handlers

import (
	"context"

	"github.com/pitabwire/locset"
)

// ResetPartHandler clears configured sub-parts on the clone before it is
// persisted. Parts carrying per-locale values such as url aliases must be
// re-authored for the new locale rather than copied from the source.
type ResetPartHandler struct {
	parts []string
}

// NewResetPartHandler resets the named parts on every new translation.
func NewResetPartHandler(parts ...string) *ResetPartHandler {
	return &ResetPartHandler{parts: parts}
}

func (h *ResetPartHandler) Name() string {
	return "reset-part"
}

func (h *ResetPartHandler) Parts() []string {
	return h.parts
}

func (h *ResetPartHandler) BeforeComplete(_ context.Context, lc *locset.LocalizationContext) error {
	delete(lc.Record.Content, lc.PartName)
	return nil
}

func (h *ResetPartHandler) AfterComplete(_ context.Context, _ *locset.LocalizationContext) error {
	return nil
}

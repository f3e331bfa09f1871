package locset

import (
	"context"

	"github.com/pitabwire/util"

	"github.com/pitabwire/locset/data"
)

// LocalizationContext is the transient value passed through the handler
// pipeline for one localize operation. Record is the newly cloned translation,
// Source the record it was cloned from. PartName is only set during
// part-scoped dispatch.
type LocalizationContext struct {
	Record   *data.ContentRecord
	Source   *data.ContentRecord
	SetID    string
	Locale   string
	PartName string
}

// Handler reacts to the creation of a new translation. BeforeComplete runs
// prior to the clone being persisted and may still mutate it; AfterComplete
// runs once the clone is saved and may trigger further side effects.
type Handler interface {
	Name() string
	BeforeComplete(ctx context.Context, lc *LocalizationContext) error
	AfterComplete(ctx context.Context, lc *LocalizationContext) error
}

// PartHandler reacts to individual named sub-parts of the cloned record
// rather than the whole record. Parts lists the part names it recognizes.
type PartHandler interface {
	Handler
	Parts() []string
}

// Pipeline is the ordered registry of localization handlers. The before phase
// walks handlers in registration order, the after phase in reverse order so
// that before/after hooks pair up like a stack unwind. Both lists are fixed at
// construction; the reversed views are derived once, not on every call.
type Pipeline struct {
	handlers         []Handler
	handlersReversed []Handler

	partHandlers         []PartHandler
	partHandlersReversed []PartHandler
}

// NewPipeline builds a pipeline over the supplied handlers. Registration
// order is the caller's argument order and is the ordering contract for both
// phases.
func NewPipeline(handlers []Handler, partHandlers []PartHandler) *Pipeline {
	return &Pipeline{
		handlers:             handlers,
		handlersReversed:     reversed(handlers),
		partHandlers:         partHandlers,
		partHandlersReversed: reversed(partHandlers),
	}
}

func reversed[T any](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}

// RunBefore notifies every handler that a translation is about to be
// persisted: record handlers first in registration order, then part handlers
// against each matching sub-part. A failing hook is logged and never blocks
// its siblings or the operation.
func (p *Pipeline) RunBefore(ctx context.Context, lc *LocalizationContext) {
	for _, handler := range p.handlers {
		p.invoke(ctx, "before", handler, lc, handler.BeforeComplete)
	}

	p.dispatchParts(ctx, "before", p.partHandlers, lc, PartHandler.BeforeComplete)
}

// RunAfter notifies every handler that the translation has been persisted, in
// the exact reverse of the before sequence: part handlers first in reverse
// order, then record handlers in reverse registration order.
func (p *Pipeline) RunAfter(ctx context.Context, lc *LocalizationContext) {
	p.dispatchParts(ctx, "after", p.partHandlersReversed, lc, PartHandler.AfterComplete)

	for _, handler := range p.handlersReversed {
		p.invoke(ctx, "after", handler, lc, handler.AfterComplete)
	}
}

// dispatchParts matches the clone's sub-parts against each handler's
// recognized part names and invokes the hook once per match, with the part
// name set on a scoped copy of the context.
func (p *Pipeline) dispatchParts(
	ctx context.Context,
	phase string,
	handlers []PartHandler,
	lc *LocalizationContext,
	hook func(PartHandler, context.Context, *LocalizationContext) error,
) {
	if len(handlers) == 0 || lc.Record == nil {
		return
	}

	parts := lc.Record.Parts()
	if len(parts) == 0 {
		return
	}

	for _, handler := range handlers {
		recognized := make(map[string]struct{}, len(handler.Parts()))
		for _, name := range handler.Parts() {
			recognized[name] = struct{}{}
		}

		for _, part := range parts {
			if _, ok := recognized[part.Name]; !ok {
				continue
			}

			scoped := *lc
			scoped.PartName = part.Name

			h := handler
			p.invoke(ctx, phase, handler, &scoped, func(hctx context.Context, hlc *LocalizationContext) error {
				return hook(h, hctx, hlc)
			})
		}
	}
}

// invoke runs one handler hook, capturing any failure so a misbehaving
// handler cannot abort the phase. The fault is recorded with the handler
// identity, the phase and the record in play.
func (p *Pipeline) invoke(
	ctx context.Context,
	phase string,
	handler Handler,
	lc *LocalizationContext,
	hook func(context.Context, *LocalizationContext) error,
) {
	err := hook(ctx, lc)
	if err == nil {
		return
	}

	logger := util.Log(ctx).
		WithError(err).
		WithField("handler", handler.Name()).
		WithField("phase", phase)
	if lc.Record != nil {
		logger = logger.WithField("content_item_id", lc.Record.ContentItemID)
	}
	if lc.PartName != "" {
		logger = logger.WithField("part", lc.PartName)
	}

	logger.Error("localization handler failed")
}

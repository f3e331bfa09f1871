package locset

import (
	"context"

	"github.com/pitabwire/locset/locale"
	"github.com/pitabwire/locset/store"
	"github.com/pitabwire/locset/workerpool"
)

// WithConfiguration Option that helps to specify or override the
// configuration object of our service.
func WithConfiguration(cfg *ConfigurationLocalization) Option {
	return func(_ context.Context, s *Service) {
		s.cfg = cfg
	}
}

// WithRecordStore Option to supply the durable record store.
func WithRecordStore(records store.RecordStore) Option {
	return func(_ context.Context, s *Service) {
		s.records = records
	}
}

// WithLocaleDirectory Option to supply the directory of supported locales.
func WithLocaleDirectory(directory locale.Directory) Option {
	return func(_ context.Context, s *Service) {
		s.directory = directory
	}
}

// WithIDGenerator Option to override how set and record ids are generated.
func WithIDGenerator(ids IDGenerator) Option {
	return func(_ context.Context, s *Service) {
		s.ids = ids
	}
}

// WithUUIDGenerator Option to generate UUID set ids instead of xids.
func WithUUIDGenerator() Option {
	return WithIDGenerator(UUIDGenerator())
}

// WithHandlers Option to register localization handlers; argument order is
// the pipeline's registration order.
func WithHandlers(handlers ...Handler) Option {
	return func(_ context.Context, s *Service) {
		var partHandlers []PartHandler
		if s.pipeline != nil {
			partHandlers = s.pipeline.partHandlers
		}
		s.pipeline = NewPipeline(handlers, partHandlers)
	}
}

// WithPartHandlers Option to register sub-part scoped handlers.
func WithPartHandlers(partHandlers ...PartHandler) Option {
	return func(_ context.Context, s *Service) {
		var handlers []Handler
		if s.pipeline != nil {
			handlers = s.pipeline.handlers
		}
		s.pipeline = NewPipeline(handlers, partHandlers)
	}
}

// WithWorkerPool Option to share an existing worker pool manager.
func WithWorkerPool(workMan workerpool.Manager) Option {
	return func(_ context.Context, s *Service) {
		s.workMan = workMan
	}
}

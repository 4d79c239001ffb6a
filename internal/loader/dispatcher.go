package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/handlers"
	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// ErrHandlerPanic wraps a value recovered from a panicking handler
var ErrHandlerPanic = errors.New("handler panicked")

// dispatcher invokes the handler named by each descriptor
type dispatcher struct {
	registry *handlers.Registry
	logger   *utils.Logger
}

// dispatch walks assets in manifest order and invokes each named handler
// synchronously with the asset's content (nil when it has none). Handler
// failures are recorded and never stop the walk; only ctx does.
func (d *dispatcher) dispatch(ctx context.Context, assets []domain.AssetDescriptor, content domain.ContentMap, report *Report, hooks Hooks) error {
	for _, asset := range assets {
		if asset.Handler == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		logger := d.logger.WithHandler(asset.Handler).WithAsset(asset.Path)
		rec := HandlerRecord{Handler: asset.Handler, Path: asset.Path}

		h, key, ok := d.registry.Lookup(asset.Handler)
		if !ok {
			logger.Warn().Msg("No handler registered")
			rec.Outcome = OutcomeMissing
			rec.Error = domain.ErrNoHandler.Error()
			report.addHandler(rec, nil)
			d.notify(hooks, rec)
			continue
		}
		rec.Resolved = key

		start := time.Now()
		err := invoke(ctx, h, content[asset.Path], asset.Path)
		rec.Duration = time.Since(start)

		if err != nil {
			herr := domain.NewHandlerError(asset.Handler, asset.Path, err)
			logger.Warn().Err(err).Msg("Handler failed")
			rec.Outcome = OutcomeFailed
			rec.Error = err.Error()
			report.addHandler(rec, herr)
			d.notify(hooks, rec)
			continue
		}

		logger.Debug().Dur("took", rec.Duration).Msg("Handler done")
		rec.Outcome = OutcomeOK
		report.addHandler(rec, nil)
		d.notify(hooks, rec)
	}
	return nil
}

func (d *dispatcher) notify(hooks Hooks, rec HandlerRecord) {
	if hooks.HandlerDone != nil {
		hooks.HandlerDone(rec)
	}
}

// invoke calls h and converts a panic into an error
func invoke(ctx context.Context, h domain.Handler, content any, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return h.Handle(ctx, content, path)
}

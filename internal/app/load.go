package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/vk/kujuconsist/internal/consist"
	"github.com/vk/kujuconsist/internal/ctxlog"
	"github.com/vk/kujuconsist/internal/train"
	"github.com/vk/kujuconsist/internal/vehicle"
)

// CanLoadTrain reports whether path names a consist file.
func (a *App) CanLoadTrain(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".con")
}

// LoadTrain reads the consist at path into t. It reports failure with false
// and a log record and never lets a fault escape to the caller.
func (a *App) LoadTrain(ctx context.Context, path string, t *train.Train) (ok bool) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger.With("consist", path)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Train load aborted by an unexpected fault.", "panic", r)
			ok = false
		}
	}()

	trainset, err := consist.TrainsetDir(path, a.config.Trainset.Dir)
	if err != nil {
		logger.Error("Consist is outside the expected folder layout.", "error", err,
			ctxlog.CategoryKey, ctxlog.CategoryFormatError)
		return false
	}

	resolver := vehicle.NewResolver(vehicle.Options{
		TrainsetDir: trainset,
		Loaders:     a.registry,
		KnownTypes:  a.config.Vehicle.KnownTypes,
		Seed:        a.loadIndex(ctx),
	})

	err = consist.Load(ctx, path, t, consist.Options{
		Factory:     a.factory,
		TrainsetDir: trainset,
		Resolver:    resolver,
	})
	if err != nil {
		return false
	}

	a.saveIndex(ctx, resolver.Index())
	return true
}

// loadIndex returns a snapshot of the vehicle index to seed a resolver
// with. The configured file is read on first use; an unreadable index is
// reported and ignored, and the load then scans from scratch.
func (a *App) loadIndex(ctx context.Context) *vehicle.Index {
	if a.config.Index.File == "" {
		return nil
	}
	a.indexMu.Lock()
	defer a.indexMu.Unlock()

	if !a.indexLoaded {
		a.indexLoaded = true
		logger := ctxlog.FromContext(ctx)
		ix, err := vehicle.ReadIndex(a.config.Index.File)
		if err != nil {
			logger.Warn("Vehicle index ignored.", "file", a.config.Index.File, "error", err,
				ctxlog.CategoryKey, ctxlog.CategoryIndexWarning)
			ix = &vehicle.Index{}
		}
		logger.Debug("Vehicle index loaded.", "file", a.config.Index.File, "engines", len(ix.Engines), "wagons", len(ix.Wagons))
		a.index = ix
	}
	return a.index.Clone()
}

// saveIndex merges what a load learned into the shared index and rewrites
// the file.
func (a *App) saveIndex(ctx context.Context, learned *vehicle.Index) {
	if a.config.Index.File == "" {
		return
	}
	a.indexMu.Lock()
	defer a.indexMu.Unlock()

	if a.index == nil {
		a.index = &vehicle.Index{}
	}
	a.index.Merge(learned)
	if err := vehicle.WriteIndex(a.config.Index.File, a.index); err != nil {
		ctxlog.FromContext(ctx).Warn("Vehicle index not saved.", "file", a.config.Index.File, "error", err,
			ctxlog.CategoryKey, ctxlog.CategoryIndexWarning)
	}
}

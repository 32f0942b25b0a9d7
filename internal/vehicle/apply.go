package vehicle

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/kujuconsist/internal/ctxlog"
	"github.com/vk/kujuconsist/internal/fsutil"
	"github.com/vk/kujuconsist/internal/kuju"
	"github.com/vk/kujuconsist/internal/train"
	"github.com/vk/kujuconsist/internal/units"
)

// apply walks the children of a matched definition into car. It returns
// the wagon name a matched Engine block nominates, if any.
func (r *Resolver) apply(ctx context.Context, def *definition, car *train.Car, isEngine bool) string {
	logger := ctxlog.FromContext(ctx).With("path", def.path, "vehicle", def.name)

	b := def.open()
	if _, err := b.ReadString(); err != nil {
		logger.Warn("Vehicle block has no name.", "error", err, ctxlog.CategoryKey, ctxlog.CategorySubtreeParseError)
		return ""
	}

	var nested string
	for b.Remaining() > 1 {
		child, err := b.ReadSubBlock()
		if err != nil {
			logger.Warn("Cannot read vehicle block child, skipping the rest.", "error", err, ctxlog.CategoryKey, ctxlog.CategorySubtreeParseError)
			break
		}
		name, err := r.applyChild(ctx, def, child, car, isEngine)
		if err != nil {
			logger.Warn("Vehicle block child failed.", "block", child.Name(), "error", err, ctxlog.CategoryKey, ctxlog.CategorySubtreeParseError)
			continue
		}
		if name != "" {
			nested = name
		}
	}
	return nested
}

func (r *Resolver) applyChild(ctx context.Context, def *definition, b kuju.Block, car *train.Car, isEngine bool) (string, error) {
	logger := ctxlog.FromContext(ctx)

	switch b.Token() {
	case kuju.TokenWagon:
		if !isEngine {
			return "", nil
		}
		name, err := b.ReadString()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(name), nil

	case kuju.TokenType:
		s, err := b.ReadString()
		if err != nil {
			return "", err
		}
		kind := strings.ToLower(strings.TrimSpace(s))
		if isEngine {
			return "", nil
		}
		if _, ok := r.knownTypes[r.fold.String(kind)]; !ok {
			logger.Warn("Expected a carriage or wagon type.", "type", kind, "path", def.path,
				ctxlog.CategoryKey, ctxlog.CategoryTypeWarning)
		}
		car.Type = kind

	case kuju.TokenWagonShape:
		s, err := b.ReadString()
		if err != nil {
			return "", err
		}
		return "", r.loadShape(ctx, def, strings.TrimSpace(s), car)

	case kuju.TokenSize:
		var dims [3]float64
		for i := range dims {
			v, err := b.ReadSingle(units.Meter)
			if err != nil {
				return "", fmt.Errorf("size field %d: %w", i, err)
			}
			dims[i] = v
		}
		car.Width, car.Height, car.Length = dims[0], dims[1], dims[2]

	case kuju.TokenMass:
		v, err := b.ReadSingle(units.Kilogram)
		if err != nil {
			return "", err
		}
		car.EmptyMass = v
	}
	return "", nil
}

func (r *Resolver) loadShape(ctx context.Context, def *definition, shape string, car *train.Car) error {
	logger := ctxlog.FromContext(ctx)

	path, ok := fsutil.ResolveFold(filepath.Dir(def.path), shape)
	if !ok {
		logger.Warn("Vehicle object file was not found.", "shape", path,
			ctxlog.CategoryKey, ctxlog.CategoryMissingObject)
		return nil
	}
	if r.loaders == nil {
		logger.Debug("No object loaders configured, car has no geometry.", "shape", path)
		return nil
	}
	name, loader, ok := r.loaders.LoaderFor(path)
	if !ok {
		logger.Debug("No object loader accepts the shape.", "shape", path)
		return nil
	}
	obj, err := loader.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("load shape %s with %s: %w", path, name, err)
	}
	car.LoadCarSections(obj)
	logger.Debug("Car geometry loaded.", "shape", path, "loader", name)
	return nil
}

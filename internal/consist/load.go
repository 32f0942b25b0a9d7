package consist

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/vk/kujuconsist/internal/ctxlog"
	"github.com/vk/kujuconsist/internal/fsutil"
	"github.com/vk/kujuconsist/internal/kuju"
	"github.com/vk/kujuconsist/internal/train"
	"github.com/vk/kujuconsist/internal/vehicle"
)

const (
	trainsDirName   = "TRAINS"
	trainsetDirName = "trainset"
)

// ErrEmptyConsist is returned when a consist declares no usable vehicles.
var ErrEmptyConsist = errors.New("consist declares no vehicles")

// Options configures a consist load.
type Options struct {
	// Factory builds each car. Nil means train.DefaultFactory.
	Factory train.CarFactory
	// TrainsetDir overrides the TRAINS/trainset folder next to the consist.
	TrainsetDir string
	// Resolver looks vehicles up. Nil means a fresh vehicle.Resolver over
	// the trainset.
	Resolver Resolver
}

// TrainsetDir checks that consistPath sits in a folder directly below a
// TRAINS folder and returns the trainset to resolve its vehicles from.
// A non-empty override replaces the trainset but not the layout check.
func TrainsetDir(consistPath, override string) (string, error) {
	abs, err := filepath.Abs(consistPath)
	if err != nil {
		return "", &kuju.FormatError{Path: consistPath, Reason: "resolve consist path", Err: err}
	}
	trains := filepath.Dir(filepath.Dir(abs))
	if !strings.EqualFold(filepath.Base(trains), trainsDirName) {
		return "", &kuju.FormatError{Path: consistPath, Reason: "consist must be in a folder directly below TRAINS"}
	}
	if override != "" {
		return override, nil
	}
	dir, ok := fsutil.ResolveFold(trains, trainsetDirName)
	if !ok {
		return "", &kuju.FormatError{Path: consistPath, Reason: "no trainset folder next to the consist folder"}
	}
	return dir, nil
}

// Load reads the consist at path into t, replacing its cars. A returned
// error means the consist as a whole could not be used; recoverable
// problems inside it are logged and the affected cars keep defaults.
func Load(ctx context.Context, path string, t *train.Train, opts Options) error {
	ctx = ctxlog.With(ctx, "consist", path)
	logger := ctxlog.FromContext(ctx)

	trainset, err := TrainsetDir(path, opts.TrainsetDir)
	if err != nil {
		logger.Error("Consist is outside the expected folder layout.", "error", err,
			ctxlog.CategoryKey, ctxlog.CategoryFormatError)
		return err
	}
	logger.Debug("Loading consist.", "trainset", trainset)

	doc, err := kuju.Open(ctx, path)
	if err != nil {
		logger.Error("Consist container could not be read.", "error", err,
			ctxlog.CategoryKey, ctxlog.CategoryFormatError)
		return err
	}
	root, err := doc.Root(kuju.TokenTrain)
	if err != nil {
		logger.Error("Consist has no readable Train block.", "error", err,
			ctxlog.CategoryKey, ctxlog.CategoryFormatError)
		return err
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = vehicle.NewResolver(vehicle.Options{TrainsetDir: trainset})
	}

	t.Cars = t.Cars[:0]
	s := NewSession(t, opts.Factory, resolver)
	if err := Parse(ctx, s, root); err != nil {
		logger.Warn("Consist body partly unreadable.", "error", err,
			ctxlog.CategoryKey, ctxlog.CategorySubtreeParseError)
	}

	if len(t.Cars) == 0 {
		logger.Error("Consist has no cars.")
		return ErrEmptyConsist
	}
	t.AssignRoles()
	t.Couple()

	logger.Info("Consist loaded.", "cars", len(t.Cars))
	return nil
}

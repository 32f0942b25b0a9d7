package vehicle

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"github.com/vk/kujuconsist/internal/ctxlog"
	"github.com/vk/kujuconsist/internal/fsutil"
	"github.com/vk/kujuconsist/internal/kuju"
	"github.com/vk/kujuconsist/internal/object"
	"github.com/vk/kujuconsist/internal/train"
)

// DefaultKnownTypes is the wagon Type vocabulary accepted without a warning.
var DefaultKnownTypes = []string{"wagon", "carriage", "engine", "freight"}

var errNotDeclared = errors.New("name not declared by any candidate file")

// LoaderSource finds an object loader for a shape file.
type LoaderSource interface {
	LoaderFor(path string) (string, object.Loader, bool)
}

// Options configures a Resolver.
type Options struct {
	// TrainsetDir is the root every vehicle file is listed from.
	TrainsetDir string
	// Loaders turns WagonShape files into geometry. Nil disables shapes.
	Loaders LoaderSource
	// KnownTypes replaces DefaultKnownTypes when set.
	KnownTypes []string
	// Seed pre-populates the caches.
	Seed *Index
}

// Resolver maps vehicle names to files and applies the matched definitions
// to cars. One Resolver serves one consist load and is not safe for
// concurrent use.
type Resolver struct {
	trainsetDir string
	loaders     LoaderSource
	knownTypes  map[string]struct{}
	fold        cases.Caser

	files   []string
	listed  bool
	listErr error

	engines *Cache
	wagons  *Cache

	// defs holds the Engine and Wagon definitions of every file read so
	// far, so a file is decoded at most once per load.
	defs  map[string][]definition
	reads map[string]int
}

// NewResolver returns a Resolver over opts.TrainsetDir.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		trainsetDir: opts.TrainsetDir,
		loaders:     opts.Loaders,
		knownTypes:  make(map[string]struct{}),
		fold:        cases.Fold(),
		engines:     NewCache(),
		wagons:      NewCache(),
		defs:        make(map[string][]definition),
		reads:       make(map[string]int),
	}

	known := opts.KnownTypes
	if len(known) == 0 {
		known = DefaultKnownTypes
	}
	for _, t := range known {
		r.knownTypes[r.fold.String(t)] = struct{}{}
	}

	if opts.Seed != nil {
		for name, path := range opts.Seed.Engines {
			r.engines.Add(name, path)
		}
		for name, path := range opts.Seed.Wagons {
			r.wagons.Add(name, path)
		}
	}
	return r
}

// Resolve finds the vehicle called name and applies it to car. An engine
// is looked up among Engine definitions first; the visual body always
// comes from a Wagon definition, named by the engine's nested Wagon block
// when it has one. A non-empty folder restricts scanning to that trainset
// subfolder. Cached names are honoured regardless of folder.
func (r *Resolver) Resolve(ctx context.Context, folder, name string, isEngine bool, car *train.Car) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving vehicle.", "name", name, "folder", folder, "engine", isEngine)

	car.Name = name
	car.IsMotorCar = false
	prefix := r.folderPrefix(folder)

	var result error
	wagonName := name
	if isEngine {
		def, err := r.find(ctx, r.engines, kuju.TokenEngine, prefix, name)
		if err != nil {
			result = r.fail(ctx, name, true, folder, err)
		} else {
			car.IsMotorCar = true
			car.EngineFile = def.path
			if nested := r.apply(ctx, def, car, true); nested != "" {
				logger.Debug("Engine names its own wagon.", "engine", name, "wagon", nested)
				wagonName = nested
			}
		}
	}

	def, err := r.find(ctx, r.wagons, kuju.TokenWagon, prefix, wagonName)
	if err != nil {
		if result == nil {
			result = r.fail(ctx, wagonName, false, folder, err)
		}
		return result
	}
	car.WagonFile = def.path
	r.apply(ctx, def, car, false)
	return result
}

func (r *Resolver) fail(ctx context.Context, name string, isEngine bool, folder string, err error) error {
	rerr := &ResolutionError{Name: name, IsEngine: isEngine, Folder: folder}
	if !errors.Is(err, errNotDeclared) {
		rerr.Err = err
	}
	ctxlog.FromContext(ctx).Warn("Vehicle could not be resolved.",
		"name", name, "engine", isEngine, "folder", folder, "error", rerr, ctxlog.CategoryKey, ctxlog.CategoryResolutionError)
	return rerr
}

func (r *Resolver) folderPrefix(folder string) string {
	if folder == "" {
		return ""
	}
	dir := folder
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.trainsetDir, filepath.FromSlash(strings.ReplaceAll(folder, "\\", "/")))
	}
	return r.fold.String(filepath.Clean(dir)) + string(filepath.Separator)
}

// find returns the definition of name for tok, trying the cache before
// scanning unread candidates.
func (r *Resolver) find(ctx context.Context, cache *Cache, tok kuju.Token, prefix, name string) (*definition, error) {
	logger := ctxlog.FromContext(ctx)
	key := r.fold.String(strings.TrimSpace(name))

	if path, ok := cache.Lookup(name); ok {
		defs, err := r.read(ctx, path)
		if err == nil {
			if def := lookupDefinition(defs, tok, key); def != nil {
				logger.Debug("Vehicle served from cache.", "name", name, "path", path)
				return def, nil
			}
		}
		logger.Debug("Dropping stale cache entry.", "name", name, "path", path, "error", err)
		cache.Remove(name)
	}

	if err := r.list(ctx); err != nil {
		return nil, err
	}

	for _, path := range r.files {
		if prefix != "" && !strings.HasPrefix(r.fold.String(path), prefix) {
			continue
		}
		if defs, seen := r.defs[path]; seen {
			// A name can lose its cache entry to a stale one that was
			// dropped above; files already read still declare it.
			if def := lookupDefinition(defs, tok, key); def != nil {
				cache.Add(def.name, path)
				return def, nil
			}
			continue
		}
		defs, err := r.read(ctx, path)
		if err != nil {
			category := ctxlog.CategorySubtreeParseError
			if kuju.IsFormatError(err) {
				category = ctxlog.CategoryFormatError
			}
			logger.Warn("Skipping unreadable vehicle file.", "path", path, "error", err, ctxlog.CategoryKey, category)
			continue
		}
		if def := lookupDefinition(defs, tok, key); def != nil {
			return def, nil
		}
	}
	return nil, errNotDeclared
}

func (r *Resolver) list(ctx context.Context) error {
	if r.listed {
		return r.listErr
	}
	r.listed = true
	r.files, r.listErr = fsutil.FindFilesByExtensions(r.trainsetDir, ".wag", ".eng")
	ctxlog.FromContext(ctx).Debug("Trainset listed.", "dir", r.trainsetDir, "files", len(r.files), "error", r.listErr)
	return r.listErr
}

// read decodes path once and caches every name it declares. A file that
// could not be read is recorded with no definitions so scans skip it.
func (r *Resolver) read(ctx context.Context, path string) ([]definition, error) {
	if defs, ok := r.defs[path]; ok {
		return defs, nil
	}
	r.reads[path]++
	defs, err := readDefinitions(ctx, path)
	r.defs[path] = defs
	if err != nil {
		return nil, err
	}
	for _, d := range defs {
		switch d.token {
		case kuju.TokenEngine:
			r.engines.Add(d.name, path)
		case kuju.TokenWagon:
			r.wagons.Add(d.name, path)
		}
	}
	return defs, nil
}

// Reads is the number of times path was opened by this resolver.
func (r *Resolver) Reads(path string) int {
	return r.reads[path]
}

// Index snapshots the caches for persistence.
func (r *Resolver) Index() *Index {
	return &Index{
		Version: indexVersion,
		Engines: r.engines.Entries(),
		Wagons:  r.wagons.Entries(),
	}
}

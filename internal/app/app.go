package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/vk/kujuconsist/internal/config"
	"github.com/vk/kujuconsist/internal/ctxlog"
	"github.com/vk/kujuconsist/internal/registry"
	"github.com/vk/kujuconsist/internal/train"
	"github.com/vk/kujuconsist/internal/vehicle"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *config.Model
	factory  train.CarFactory

	// index is the vehicle index shared by every load of this App.
	indexMu     sync.Mutex
	index       *vehicle.Index
	indexLoaded bool
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	// Configuration files may set the log level, so they are read with a
	// provisional logger first.
	bootLogger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), bootLogger)

	cfgModel, err := loader.Load(ctx, appConfig.ConfigPaths...)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	applyOverrides(cfgModel, appConfig)

	logger := newLogger(cfgModel.Log.Level, cfgModel.Log.Format, outW)
	logger.Debug("Configuration loaded.", "trainset", cfgModel.Trainset.Dir, "index", cfgModel.Index.File)

	// Create and populate the registry with Go object loaders.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "loaders", reg.Names())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfgModel,
		factory:  train.DefaultFactory{},
	}
}

// applyOverrides lets explicitly given settings win over file values.
func applyOverrides(m *config.Model, c *Config) {
	if c.TrainsetDir != "" {
		m.Trainset.Dir = c.TrainsetDir
	}
	if c.IndexFile != "" {
		m.Index.File = c.IndexFile
	}
	if c.LogLevel != "" {
		m.Log.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		m.Log.Format = c.LogFormat
	}
}

// SetCarFactory replaces the factory new cars are built with.
func (a *App) SetCarFactory(f train.CarFactory) {
	a.factory = f
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Config returns the effective configuration.
func (a *App) Config() *config.Model {
	return a.config
}

package config

// Model is the unified, format-agnostic representation of the application
// configuration.
type Model struct {
	Trainset Trainset
	Vehicle  Vehicle
	Index    Index
	Log      Log
}

// Trainset locates vehicle files.
type Trainset struct {
	// Dir overrides the TRAINS/trainset folder next to each consist.
	Dir string
}

// Vehicle tunes vehicle resolution.
type Vehicle struct {
	// KnownTypes replaces the default wagon Type vocabulary when set.
	KnownTypes []string
}

// Index configures the persisted vehicle index.
type Index struct {
	// File is read before and written after each load. Empty disables it.
	File string
}

// Log configures the application logger.
type Log struct {
	Level  string
	Format string
}

// Default returns the configuration used when no file sets a value.
func Default() *Model {
	return &Model{
		Log: Log{Level: "info", Format: "text"},
	}
}

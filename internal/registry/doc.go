// Package registry provides the central "glue" for the module system.
//
// The Registry maps loader names to the compiled object loaders that turn
// a vehicle's shape file into car geometry. Modules register themselves at
// application startup; vehicle resolution then asks the registry for the
// first loader willing to read a given file.
package registry

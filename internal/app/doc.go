// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the train loading entry point, decoupled
// from any specific entrypoint like a CLI or a simulator host.
package app

// Package vehicle resolves the vehicle names a consist lists to the .wag
// and .eng files of a trainset and applies the matched definitions to cars.
//
// MSTS keeps an internal database keyed by vehicle name rather than by
// path. The Resolver approximates it: the trainset is listed once, files
// are read in path order, and every Engine and Wagon name seen on the way
// is cached so later lookups skip the scan. The first file to declare a
// name owns it.
package vehicle

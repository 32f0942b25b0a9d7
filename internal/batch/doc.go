// Package batch loads many consists concurrently with a fixed pool of
// workers. Each load is independent; results come back in input order.
package batch

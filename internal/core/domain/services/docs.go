// Package services provides domain services that coordinate business
// operations across multiple aggregates.
//
// The package includes:
//   - JobDispatcher: A domain service for selecting and reserving the nearest
//     driver for a job
//
// Domain services hold logic that does not naturally belong to a single
// aggregate root.
package services

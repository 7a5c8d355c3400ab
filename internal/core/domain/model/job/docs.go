// Package job contains the Job aggregate and its lifecycle state machine.
//
// A job is a single transportation request: who asked for it, where to pick
// up, where to drop off, and how far it has progressed. Status transitions
// are forward-only and completed jobs are immutable. The aggregate enforces
// single assignment of a driver; the transactional locking that serializes
// concurrent assignment attempts lives in the application layer.
package job

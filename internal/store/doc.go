// Package store defines the persistence interfaces the rest of the
// application depends on, together with the sentinel errors shared by all
// implementations. Concrete implementations live under platform/postgres.
package store

// Package models defines the domain types shared by the budgeting client.
//
// The same logical purchase can exist twice: once as a personal expense
// (no group reference) and once as an independent group copy created when
// the expense is imported into a group. The two copies carry no foreign-key
// link to each other, which is why the import path relies on structural
// matching (see internal/groups).
//
// Identifiers are typed integers whose zero value means "not yet persisted".
// A draft expense therefore cannot be compared or keyed by id by accident;
// callers must check Valid() first.
package models

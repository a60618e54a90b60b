// Package repository defines the persistence contracts of the service and
// their MySQL implementation.  The MongoDB implementation lives in the
// mongostore subpackage and satisfies the same interfaces.
//
// Sentinel errors are shared by both backends so handlers can branch with
// errors.Is without knowing which store is configured.
package repository

import "errors"

// ErrNotFound is returned when no live (non-deleted) row matches.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when inserting a user or subscriber whose email
// is already on file.
var ErrEmailExists = errors.New("email already exists")

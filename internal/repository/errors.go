// Package repository holds the MySQL-backed stores for accounts and the
// payment ledger.  The sentinel errors below let handlers tell failure
// kinds apart.
package repository

import "errors"

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating an account whose email is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidAmount is returned when a payment amount is negative.
var ErrInvalidAmount = errors.New("invalid payment amount")

// Package access decides who may read or write a planner row.
//
// An identity may read and write the rows it owns. An admin may read every
// row but writes only its own.
package access

import "errors"

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Caller is the identity a request runs as.
type Caller struct {
	ProfileID string
	IsAdmin   bool
}

// Anonymous reports whether the caller carries no identity.
func (c Caller) Anonymous() bool {
	return c.ProfileID == ""
}

// CanRead reports whether c may read a row owned by ownerID.
func CanRead(c Caller, ownerID string) bool {
	if c.Anonymous() || ownerID == "" {
		return false
	}
	return c.ProfileID == ownerID || c.IsAdmin
}

// CanWrite reports whether c may insert, update or delete a row owned by ownerID.
func CanWrite(c Caller, ownerID string) bool {
	if c.Anonymous() || ownerID == "" {
		return false
	}
	return c.ProfileID == ownerID
}

// CanListAll reports whether c may enumerate rows across all owners.
func CanListAll(c Caller) bool {
	return !c.Anonymous() && c.IsAdmin
}

// RequireRead returns ErrUnauthenticated or ErrForbidden when CanRead fails.
func RequireRead(c Caller, ownerID string) error {
	if c.Anonymous() {
		return ErrUnauthenticated
	}
	if !CanRead(c, ownerID) {
		return ErrForbidden
	}
	return nil
}

// RequireWrite returns ErrUnauthenticated or ErrForbidden when CanWrite fails.
func RequireWrite(c Caller, ownerID string) error {
	if c.Anonymous() {
		return ErrUnauthenticated
	}
	if !CanWrite(c, ownerID) {
		return ErrForbidden
	}
	return nil
}

// RequireAdmin returns ErrUnauthenticated or ErrForbidden unless c is an admin.
func RequireAdmin(c Caller) error {
	if c.Anonymous() {
		return ErrUnauthenticated
	}
	if !c.IsAdmin {
		return ErrForbidden
	}
	return nil
}

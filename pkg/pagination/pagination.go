package pagination

import (
	pkgerrors "github.com/sharekit-app/sharekit-backend/pkg/errors"
)

// Range is the pagination window used across listing endpoints: an element
// offset `from` plus a page size. When both are nil the result set is
// returned unpaginated.
type Range struct {
	From *int
	Size *int
}

// Of builds a Range from optional components.
func Of(from, size *int) Range {
	return Range{From: from, Size: size}
}

// Unbounded is the Range that disables pagination.
func Unbounded() Range {
	return Range{}
}

// Enabled reports whether a window was requested.
func (r Range) Enabled() bool {
	return r.From != nil && r.Size != nil
}

// Validate enforces the accepted combinations: both components absent, or
// both present with from >= 0 and size > 0.
func (r Range) Validate() error {
	if r.From == nil && r.Size == nil {
		return nil
	}
	if r.From == nil || r.Size == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "from and size must be provided together")
	}
	if *r.From < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "from must not be negative")
	}
	if *r.Size <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "size must be positive")
	}
	return nil
}

// Page reports the page index and size of the window. The index is
// `from / size` in integer division, so `from` values inside the first
// page all resolve to page zero. Deliberately kept: callers depend on the
// historical behavior.
func (r Range) Page() (index, size int) {
	if !r.Enabled() {
		return 0, 0
	}
	return *r.From / *r.Size, *r.Size
}

// Offset is the row offset the page index resolves to.
func (r Range) Offset() int {
	index, size := r.Page()
	return index * size
}

// Limit is the row limit for the window, zero when unbounded.
func (r Range) Limit() int {
	if !r.Enabled() {
		return 0
	}
	return *r.Size
}

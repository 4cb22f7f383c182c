package pagination

import (
	"testing"

	pkgerrors "github.com/sharekit-app/sharekit-backend/pkg/errors"
)

func intPtr(v int) *int { return &v }

func TestValidateAcceptsUnbounded(t *testing.T) {
	if err := Unbounded().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateAcceptsWellFormedWindow(t *testing.T) {
	if err := Of(intPtr(0), intPtr(10)).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsPartialWindow(t *testing.T) {
	cases := []Range{
		Of(intPtr(0), nil),
		Of(nil, intPtr(10)),
	}
	for _, r := range cases {
		err := r.Validate()
		if err == nil {
			t.Fatalf("expected error for %+v", r)
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation code, got %v", err)
		}
	}
}

func TestValidateRejectsBadBounds(t *testing.T) {
	if err := Of(intPtr(-1), intPtr(10)).Validate(); err == nil {
		t.Fatal("expected error for negative from")
	}
	if err := Of(intPtr(0), intPtr(0)).Validate(); err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestPageIndexUsesIntegerDivision(t *testing.T) {
	// from=5,size=10 lands on page 0, not element offset 5.
	index, size := Of(intPtr(5), intPtr(10)).Page()
	if index != 0 || size != 10 {
		t.Fatalf("expected page 0 size 10, got page %d size %d", index, size)
	}
	if got := Of(intPtr(5), intPtr(10)).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}

	index, _ = Of(intPtr(20), intPtr(10)).Page()
	if index != 2 {
		t.Fatalf("expected page 2, got %d", index)
	}
	if got := Of(intPtr(25), intPtr(10)).Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
}

func TestUnboundedWindowHasNoLimit(t *testing.T) {
	r := Unbounded()
	if r.Enabled() {
		t.Fatal("unbounded range must not be enabled")
	}
	if r.Limit() != 0 {
		t.Fatalf("expected zero limit, got %d", r.Limit())
	}
}

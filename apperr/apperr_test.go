package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWrappedError(t *testing.T) {
	base := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("complete task: %w", Unavailable("write profile", base))

	if got := KindOf(err); got != KindUnavailable {
		t.Fatalf("KindOf() = %q, want %q", got, KindUnavailable)
	}
	if !errors.Is(err, base) {
		t.Error("expected wrapped error to unwrap to the driver error")
	}
	if !Is(err, KindUnavailable) {
		t.Error("Is() should match the tagged kind")
	}
	if Is(err, KindNotFound) {
		t.Error("Is() should not match a different kind")
	}
}

func TestKindOfUntagged(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf() = %q, want empty", got)
	}
	if Is(nil, KindValidation) {
		t.Error("nil error has no kind")
	}
}

func TestErrorMessage(t *testing.T) {
	err := NotFound("find day", errors.New("day 7 not found"))
	if got, want := err.Error(), "find day: day 7 not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got, want := New(KindConflict, "write profile", nil).Error(), "write profile: conflict"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

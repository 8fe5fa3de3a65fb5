package source

import (
	"errors"
	"strings"
	"testing"
)

func TestSourceError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *SourceError
		want string
	}{
		{"with status", NewStatusError(503), "network error (status 503)"},
		{"network", NewNetworkError(errors.New("dial refused")), "network error:"},
		{"malformed", NewMalformedError("missing quote arrays"), "malformed error: missing quote arrays"},
		{"empty", NewEmptyError("no bars"), "empty error: no bars"},
		{"anchor", NewInvalidAnchorError(0), "invalid_anchor error:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); !strings.Contains(got, tt.want) {
				t.Errorf("Error() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestSourceError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewNetworkError(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find the cause")
	}
}

func TestUnavailable_KeepsLastCause(t *testing.T) {
	inner := NewStatusError(429)
	err := NewUnavailableError(inner)

	if !IsKind(err, KindUnavailable) {
		t.Error("outer kind is not unavailable")
	}

	var se *SourceError
	if !errors.As(err.Cause, &se) || se.StatusCode != 429 {
		t.Error("cause lost the original status")
	}
}

func TestIsKind(t *testing.T) {
	err := NewEmptyError("zero bars")

	if !IsKind(err, KindEmpty) {
		t.Error("IsKind(KindEmpty) = false, want true")
	}
	if IsKind(err, KindNetwork) {
		t.Error("IsKind(KindNetwork) = true, want false")
	}
	if IsKind(errors.New("plain"), KindEmpty) {
		t.Error("IsKind matched a plain error")
	}
	if IsKind(nil, KindEmpty) {
		t.Error("IsKind matched nil")
	}
}

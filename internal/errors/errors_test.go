package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestScribeErrorFormatting(t *testing.T) {
	base := New(CategoryGit, SeverityError, "clone failed")
	if got := base.Error(); got != "git (error): clone failed" {
		t.Fatalf("unexpected format: %q", got)
	}

	cause := errors.New("dial tcp: timeout")
	wrapped := Wrap(cause, CategoryNetwork, SeverityError, "remote unreachable")
	if !errors.Is(wrapped, cause) {
		t.Fatal("wrapped error should unwrap to cause")
	}
}

func TestCategoryHelpers(t *testing.T) {
	err := ValidationError("repository URL is required")
	if !IsCategory(err, CategoryValidation) {
		t.Fatal("expected validation category")
	}
	if IsCategory(err, CategoryGit) {
		t.Fatal("category must not match git")
	}
	if GetCategory(fmt.Errorf("plain")) != CategoryInternal {
		t.Fatal("plain errors default to internal category")
	}
}

func TestWithContext(t *testing.T) {
	err := New(CategoryGeneration, SeverityWarning, "model call failed").
		WithContext("template", "readme").
		WithContext("attempt", 1)
	if err.Context["template"] != "readme" {
		t.Fatalf("missing context field: %v", err.Context)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ValidationError("missing"), http.StatusBadRequest},
		{New(CategoryAuth, SeverityError, "denied"), http.StatusUnauthorized},
		{New(CategoryGit, SeverityError, "clone failed"), http.StatusBadGateway},
		{New(CategoryGeneration, SeverityError, "quota"), http.StatusBadGateway},
		{errors.New("mystery"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := adapter.StatusCodeFor(tc.err); got != tc.want {
			t.Errorf("StatusCodeFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestCLIExitCodes(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)
	if code := adapter.ExitCodeFor(nil); code != 0 {
		t.Fatalf("nil error should exit 0, got %d", code)
	}
	if code := adapter.ExitCodeFor(ValidationError("bad input")); code != 2 {
		t.Fatalf("validation should exit 2, got %d", code)
	}
	if code := adapter.ExitCodeFor(New(CategoryGit, SeverityError, "x")); code != 8 {
		t.Fatalf("git should exit 8, got %d", code)
	}
	if code := adapter.ExitCodeFor(errors.New("plain")); code != 1 {
		t.Fatalf("plain should exit 1, got %d", code)
	}
}

package inventory

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"not found sentinel", &NotFoundError{ID: 4}, "INV001"},
		{"wrapped not found", fmt.Errorf("update book: %w", &NotFoundError{ID: 4}), "INV001"},
		{"blank record", ErrBlankRecord, "INV002"},
		{"unknown column", &ColumnError{Column: "author"}, "CFG001"},
		{"store unavailable", Unavailable("ping", errors.New("boom")), "DB004"},
		{"sqlite locked", errors.New("database is locked"), "DB001"},
		{"connection refused", errors.New("dial tcp: connection refused"), "DB004"},
		{"cancelled", context.Canceled, "IMP002"},
		{"deadline", context.DeadlineExceeded, "IMP003"},
		{"too large", errors.New("file too large: exceeds 10 bytes"), "FILE001"},
		{"case insensitive", errors.New("UNSUPPORTED FILE TYPE"), "FILE003"},
		{"unknown error returns default", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(&NotFoundError{ID: 1})
	want := "Book not found (Code: INV001). Refresh the list and pick an existing book"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
}

func TestErrorsUnwrap(t *testing.T) {
	err := fmt.Errorf("get: %w", &NotFoundError{ID: 9})
	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should unwrap to ErrNotFound")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.ID != 9 {
		t.Errorf("errors.As NotFoundError = %v, want id 9", nf)
	}
	if !errors.Is(&ColumnError{Column: "x"}, ErrUnknownColumn) {
		t.Error("ColumnError should unwrap to ErrUnknownColumn")
	}
}

package sheets

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestNewWriter_Validation(t *testing.T) {
	creds := []byte(`{"type":"service_account"}`)

	if _, err := NewWriter("", "A1", creds); err == nil {
		t.Error("expected error for missing spreadsheet ID")
	}
	if _, err := NewWriter("sheet-123", "A1", nil); err == nil {
		t.Error("expected error for missing credentials")
	}

	w, err := NewWriter("sheet-123", "", creds)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if w.readRange != DefaultRange {
		t.Errorf("readRange = %q, want default %q", w.readRange, DefaultRange)
	}
}

func TestWriterURL(t *testing.T) {
	w, err := NewWriter("sheet-123", "A1", []byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}

	want := "https://docs.google.com/spreadsheets/d/sheet-123/edit"
	if got := w.URL(); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "expired session",
			err:  &googleapi.Error{Code: http.StatusUnauthorized},
			want: true,
		},
		{
			name: "wrapped expired session",
			err:  fmt.Errorf("append: %w", &googleapi.Error{Code: http.StatusUnauthorized}),
			want: true,
		},
		{
			name: "forbidden is not a session problem",
			err:  &googleapi.Error{Code: http.StatusForbidden},
			want: false,
		},
		{
			name: "server error",
			err:  &googleapi.Error{Code: http.StatusServiceUnavailable},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection reset"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAuthError(tt.err); got != tt.want {
				t.Errorf("isAuthError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

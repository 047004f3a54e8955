// Package sheets appends extracted slip rows to a Google Sheet through the
// Sheets API, authenticated with a long-lived service-account credential.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

// DefaultRange is the A1-notation range appends are anchored to. The Sheets
// API locates the table below it, so "A1" appends after the last used row.
const DefaultRange = "A1"

// Writer appends rows to one spreadsheet. The underlying Sheets service is
// a process-wide singleton built on first use behind a mutex and rebuilt
// only when a request comes back unauthenticated.
type Writer struct {
	spreadsheetID string
	readRange     string
	creds         []byte

	mu  sync.Mutex
	svc *sheetsv4.Service
}

// NewWriter creates a writer for the given spreadsheet. creds is the
// service-account key JSON.
func NewWriter(spreadsheetID, readRange string, creds []byte) (*Writer, error) {
	if spreadsheetID == "" {
		return nil, errors.New("sheets: spreadsheet ID is required")
	}
	if len(creds) == 0 {
		return nil, errors.New("sheets: service account credentials are required")
	}
	if readRange == "" {
		readRange = DefaultRange
	}
	return &Writer{
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		creds:         creds,
	}, nil
}

// URL returns the browser URL of the spreadsheet, used in confirmation
// messages.
func (w *Writer) URL() string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", w.spreadsheetID)
}

// AppendRow appends one row after the existing table. The call is a single
// atomic remote append; on an expired-session signal the cached service is
// rebuilt and the append retried once, any other failure propagates as-is.
func (w *Writer) AppendRow(ctx context.Context, values []interface{}) error {
	svc, err := w.service(ctx)
	if err != nil {
		return err
	}

	if err := w.append(ctx, svc, values); err != nil {
		if !isAuthError(err) {
			return fmt.Errorf("sheets: append row: %w", err)
		}
		svc, rerr := w.reauthenticate(ctx)
		if rerr != nil {
			return rerr
		}
		if err := w.append(ctx, svc, values); err != nil {
			return fmt.Errorf("sheets: append row after reauth: %w", err)
		}
	}

	return nil
}

func (w *Writer) append(ctx context.Context, svc *sheetsv4.Service, values []interface{}) error {
	body := &sheetsv4.ValueRange{
		Values: [][]interface{}{values},
	}
	_, err := svc.Spreadsheets.Values.
		Append(w.spreadsheetID, w.readRange, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (w *Writer) service(ctx context.Context) (*sheetsv4.Service, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.svc != nil {
		return w.svc, nil
	}

	svc, err := sheetsv4.NewService(ctx,
		option.WithCredentialsJSON(w.creds),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}

	w.svc = svc
	return svc, nil
}

func (w *Writer) reauthenticate(ctx context.Context) (*sheetsv4.Service, error) {
	w.mu.Lock()
	w.svc = nil
	w.mu.Unlock()
	return w.service(ctx)
}

// isAuthError reports whether the API rejected the cached session.
func isAuthError(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusUnauthorized
}

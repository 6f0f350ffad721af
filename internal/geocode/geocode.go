// ABOUTME: Geocoding contract shared by explicit search and auto-resolution
// ABOUTME: Resolves free text to coordinates and a formatted address

package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means the service had no match for the query.
	ErrNotFound = errors.New("no geocoding result")
	// ErrTransport covers network failures and service-side errors.
	ErrTransport = errors.New("geocoding request failed")
)

// Result is a resolved place.
type Result struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
}

// Geocoder resolves a free-text place description.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (Result, error)
}

// Search runs an explicit, user-triggered lookup. Unlike auto-resolution
// every failure is returned to the caller.
func Search(ctx context.Context, g Geocoder, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, fmt.Errorf("%w: empty query", ErrNotFound)
	}
	res, err := g.Resolve(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("search %q: %w", query, err)
	}
	return res, nil
}

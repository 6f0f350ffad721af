// ABOUTME: Debounced background geocoding for an address field
// ABOUTME: Coalesces rapid edits and applies only the newest response

package geocode

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultDebounce is the quiet period before a lookup is sent.
	DefaultDebounce = 1000 * time.Millisecond

	// minQueryLen is the length a trimmed query must exceed to be looked up.
	minQueryLen = 3
)

// Sink receives results for the form being edited. IssueGeocodeToken is
// called when a request is sent; ApplyGeocode reports whether the result
// was still current.
type Sink interface {
	IssueGeocodeToken() uint64
	ApplyGeocode(token uint64, lat, lng float64, formattedAddress string) bool
}

// AutoResolver geocodes an address field as it is typed. Failures are
// logged and never interrupt the user.
type AutoResolver struct {
	geocoder Geocoder
	sink     Sink
	delay    time.Duration
	log      zerolog.Logger

	mu     sync.Mutex
	timer  *time.Timer
	wg     sync.WaitGroup
	closed bool
}

// NewAutoResolver returns a resolver feeding sink. A zero delay uses DefaultDebounce.
func NewAutoResolver(g Geocoder, sink Sink, delay time.Duration) *AutoResolver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &AutoResolver{
		geocoder: g,
		sink:     sink,
		delay:    delay,
		log:      log.Logger.With().Str("component", "geocode").Logger(),
	}
}

// Changed reports a new value of the address field. Any pending lookup is
// replaced; short values only cancel it.
func (a *AutoResolver) Changed(value string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}

	query := strings.TrimSpace(value)
	if len(query) <= minQueryLen {
		return
	}

	a.timer = time.AfterFunc(a.delay, func() { a.fire(query) })
}

func (a *AutoResolver) fire(query string) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.wg.Add(1)
	a.mu.Unlock()
	defer a.wg.Done()

	token := a.sink.IssueGeocodeToken()
	res, err := a.geocoder.Resolve(context.Background(), query)
	if err != nil {
		a.log.Warn().Err(err).Str("query", query).Msg("address lookup failed")
		return
	}
	if !a.sink.ApplyGeocode(token, res.Lat, res.Lng, res.FormattedAddress) {
		a.log.Debug().Str("query", query).Uint64("token", token).Msg("stale lookup discarded")
	}
}

// Flush waits for in-flight lookups to finish. Pending timers are not
// waited for.
func (a *AutoResolver) Flush() {
	a.wg.Wait()
}

// Close cancels any pending lookup and waits for running ones.
func (a *AutoResolver) Close() {
	a.mu.Lock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	a.wg.Wait()
}

// Package api provides the high-level DEGIRO operations: login and session
// enrichment, portfolio/orders/transactions reads with normalized domain
// records, product search and batch product resolution.
package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"degiro-trader/internal/webapi"
)

// defaultWindow is how far back date-windowed reads look when the caller
// leaves the from date zero.
const defaultWindow = 7 * 24 * time.Hour

// Degiro wraps one session against the web API.
type Degiro struct {
	web    *webapi.Client
	sess   *webapi.Session
	clock  func() time.Time
	logger zerolog.Logger
}

// Option configures a Degiro instance.
type Option func(*Degiro)

// WithClock overrides the time source used for date-window defaulting.
func WithClock(clock func() time.Time) Option {
	return func(d *Degiro) { d.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Degiro) { d.logger = l }
}

// WithSession reuses an existing session instead of starting empty.
func WithSession(sess *webapi.Session) Option {
	return func(d *Degiro) { d.sess = sess }
}

// New creates a Degiro instance on top of a web API client.
func New(web *webapi.Client, opts ...Option) *Degiro {
	d := &Degiro{
		web:    web,
		sess:   webapi.NewSession(),
		clock:  time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Session exposes the underlying session state.
func (d *Degiro) Session() *webapi.Session {
	return d.sess
}

// Login authenticates and stores the session cookie. Enrichment is separate:
// call GetConfig/GetClientInfo, or Connect to do all three.
func (d *Degiro) Login(ctx context.Context, creds webapi.Credentials) error {
	sess, err := d.web.Login(ctx, creds, d.sess)
	if err != nil {
		return err
	}
	d.sess = sess
	return nil
}

// GetConfig runs the config enrichment step.
func (d *Degiro) GetConfig(ctx context.Context) error {
	return d.web.GetConfig(ctx, d.sess)
}

// GetClientInfo runs the client-info enrichment step.
func (d *Degiro) GetClientInfo(ctx context.Context) error {
	return d.web.GetClientInfo(ctx, d.sess)
}

// Connect logs in and runs both enrichment steps, the enrichments
// concurrently (each only needs the session cookie). After Connect returns
// nil the session is ready for every read operation.
func (d *Degiro) Connect(ctx context.Context, creds webapi.Credentials) error {
	if err := d.Login(ctx, creds); err != nil {
		return err
	}

	errs := make(chan error, 2)
	go func() { errs <- d.web.GetConfig(ctx, d.sess) }()
	go func() { errs <- d.web.GetClientInfo(ctx, d.sess) }()

	// Join both before returning so the session is never half-mutated while
	// the caller moves on.
	var firstErr error
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// dateWindow applies the default window: to defaults to now, from defaults to
// to minus seven days.
func (d *Degiro) dateWindow(from, to time.Time) (time.Time, time.Time) {
	if to.IsZero() {
		to = d.clock()
	}
	if from.IsZero() {
		from = to.Add(-defaultWindow)
	}
	return from, to
}

package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"planner/internal/adapters/changefeed"
	"planner/internal/adapters/email"
	"planner/internal/adapters/http/middleware"
	"planner/internal/adapters/http/perf"
	auditStore "planner/internal/adapters/storage/audit"
	guestStore "planner/internal/adapters/storage/guest"
	profileStore "planner/internal/adapters/storage/profile"
	taskStore "planner/internal/adapters/storage/task"
	vendorStore "planner/internal/adapters/storage/vendor"
)

// Stores holds all storage dependencies.
type Stores struct {
	ProfileStore profileStore.Store
	TaskStore    taskStore.Store
	VendorStore  vendorStore.Store
	GuestStore   guestStore.Store
	AuditStore   auditStore.Store
}

// Options carries the runtime settings NewMux needs.
type Options struct {
	CSRFKey        []byte
	Secure         bool // production: Secure cookies and HTTPS-only CSRF checks
	TrustedOrigins []string
	BaseURL        string
	RateLimit      int // mutating requests per second per IP
	SlowRequest    time.Duration
	Collector      *perf.Collector
	Changes        *changefeed.Broker
	Sender         email.Sender
	Stop           <-chan struct{} // closes background goroutines
}

// ErrCSRFKeyRequired is returned by LoadCSRFKey in production when no key is configured.
var ErrCSRFKeyRequired = errors.New("PLANNER_CSRF_KEY is required in production")

// LoadCSRFKey decodes the hex CSRF secret (64 hex characters, 32 bytes).
// In production the key MUST be set. In development a random key is generated per startup.
func LoadCSRFKey(keyHex string, production bool) ([]byte, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, errors.New("PLANNER_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	if production {
		return nil, ErrCSRFKeyRequired
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	slog.Warn("config_event", "event", "random_csrf_key", "detail", "form tokens will not survive a restart")
	return key, nil
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global change broker (set by NewMux)
var changes *changefeed.Broker

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by NewMux)
var emailSender email.Sender

// baseURL prefixes links in outgoing email.
var baseURL string

// streamStop closes open change streams on shutdown (set by NewMux).
var streamStop <-chan struct{}

// runAsync runs work that must not hold up the response. Tests replace it to run inline.
var runAsync = func(f func()) { go f() }

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, opts Options) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	changes = opts.Changes
	if changes == nil {
		changes = changefeed.NewBroker(changefeed.DefaultBuffer)
	}
	perfCollector = opts.Collector
	emailSender = opts.Sender
	if emailSender == nil {
		emailSender = email.NewNoopSender()
	}
	baseURL = opts.BaseURL
	streamStop = opts.Stop
	middleware.SecureCookies = opts.Secure

	mux := http.NewServeMux()
	registerRoutes(mux)

	rate := opts.RateLimit
	if rate <= 0 {
		rate = 10
	}
	limiter := middleware.NewRateLimiter(rate, time.Second, opts.Stop)

	// Request order: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(opts.CSRFKey, opts.Secure, opts.TrustedOrigins),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(opts.SlowRequest, opts.Collector),
	)
}

// Package presign recovers from expired or broken presigned evidence URLs
// without user intervention, bounded to a single automatic refresh per
// resource so a permanently missing object cannot cause a retry loop.
package presign

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shelfsense/pidash/internal/contract"
)

// State is the lifecycle state of one presigned resource.
type State string

const (
	StateLoading    State = "loading"
	StateLoaded     State = "loaded"
	StateError      State = "error"
	StateRefreshing State = "refreshing"
	// StateFailed is terminal: the automatic refresh was spent. Only a
	// manual Retry leaves it.
	StateFailed State = "failed"
)

// LoadFunc fetches the resource behind a presigned URL.
type LoadFunc func(ctx context.Context, url string) error

// RenewFunc obtains a fresh presigned URL for a stable object id.
type RenewFunc func(ctx context.Context, objectID string) (*contract.PresignedURL, error)

// Refresher drives the load/refresh state machine for one evidence resource.
type Refresher struct {
	mu        sync.Mutex
	state     State
	objectID  string
	url       string
	expiresAt time.Time
	refreshed bool

	load   LoadFunc
	renew  RenewFunc
	logger *zap.Logger
	now    func() time.Time
}

// New creates a refresher for one presigned resource. expiresAt may be zero
// when the signing deadline is unknown; the pre-flight expiry check is then
// skipped and only load failures trigger a refresh.
func New(objectID, url string, expiresAt time.Time, load LoadFunc, renew RenewFunc, logger *zap.Logger) *Refresher {
	return &Refresher{
		state:     StateLoading,
		objectID:  objectID,
		url:       url,
		expiresAt: expiresAt,
		load:      load,
		renew:     renew,
		logger:    logger,
		now:       time.Now,
	}
}

// State returns the current machine state.
func (r *Refresher) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// URL returns the URL currently in use (fresh one after a refresh).
func (r *Refresher) URL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.url
}

// Load runs the machine once: happy path loading→loaded, or one automatic
// recovery loading→error→refreshing→loaded. A second failure is terminal.
func (r *Refresher) Load(ctx context.Context) error {
	r.mu.Lock()
	if r.state == StateFailed {
		r.mu.Unlock()
		return fmt.Errorf("presign %s: terminal failed state, use Retry", r.objectID)
	}
	r.state = StateLoading
	r.mu.Unlock()

	// Pre-flight: a URL already past its signing deadline fails without a
	// wasted fetch.
	expired := !r.expiresAt.IsZero() && !r.now().Before(r.expiresAt)

	if !expired {
		if err := r.load(ctx, r.url); err == nil {
			r.setState(StateLoaded)
			return nil
		} else if ctx.Err() != nil {
			r.setState(StateError)
			return ctx.Err()
		}
	}

	r.setState(StateError)
	return r.refresh(ctx)
}

// refresh performs the single permitted automatic recovery.
func (r *Refresher) refresh(ctx context.Context) error {
	r.mu.Lock()
	if r.refreshed {
		r.state = StateFailed
		r.mu.Unlock()
		return fmt.Errorf("presign %s: refresh already attempted", r.objectID)
	}
	r.refreshed = true
	r.state = StateRefreshing
	r.mu.Unlock()

	fresh, err := r.renew(ctx, r.objectID)
	if err != nil {
		r.setState(StateFailed)
		return fmt.Errorf("renew presigned url for %s: %w", r.objectID, err)
	}

	r.mu.Lock()
	r.url = fresh.URL
	r.expiresAt = fresh.ExpiresAt
	r.mu.Unlock()

	if err := r.load(ctx, fresh.URL); err != nil {
		r.setState(StateFailed)
		return fmt.Errorf("load refreshed url for %s: %w", r.objectID, err)
	}

	r.logger.Debug("presigned url refreshed", zap.String("object_id", r.objectID))
	r.setState(StateLoaded)
	return nil
}

// Retry is the manual escape from the terminal failed state. It re-arms the
// single automatic refresh and runs Load again.
func (r *Refresher) Retry(ctx context.Context) error {
	r.mu.Lock()
	r.refreshed = false
	r.state = StateLoading
	r.mu.Unlock()
	return r.Load(ctx)
}

func (r *Refresher) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// ObjectIDFromURL extracts the stable backend-issued object identifier from a
// (possibly expired) presigned URL: the object_id query parameter when
// present, otherwise the final path segment without its extension.
func ObjectIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if id := u.Query().Get("object_id"); id != "" {
		return id
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

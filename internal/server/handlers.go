package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/shelfsense/pidash/internal/api"
	"github.com/shelfsense/pidash/internal/contract"
	"github.com/shelfsense/pidash/internal/history"
	"github.com/shelfsense/pidash/internal/presign"
	"github.com/shelfsense/pidash/internal/query"
	"github.com/shelfsense/pidash/internal/reach"
)

// CacheTTLs tunes per-resource cache lifetimes.
type CacheTTLs struct {
	Default time.Duration
	Session time.Duration
	Config  time.Duration
}

// Handlers serves the dashboard API by proxying the orchestrator through
// the query cache.
type Handlers struct {
	client  *api.Client
	store   *query.Store
	history *history.Store
	probe   *reach.Probe
	ttls    CacheTTLs
	logger  *zap.Logger

	// imageClient fetches presigned evidence images; separate from the
	// orchestrator client because the URLs point at the object store.
	imageClient *http.Client
}

// NewHandlers creates the dashboard API handlers. probe and hist may be nil
// when the corresponding subsystem is disabled.
func NewHandlers(client *api.Client, store *query.Store, hist *history.Store, probe *reach.Probe, ttls CacheTTLs, logger *zap.Logger) *Handlers {
	return &Handlers{
		client:      client,
		store:       store,
		history:     hist,
		probe:       probe,
		ttls:        ttls,
		logger:      logger,
		imageClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Compile-time guard: Handlers plugs into the server as a route registrar.
var _ SimpleRouteRegistrar = (*Handlers)(nil)

// RegisterRoutes installs the dashboard API on mux.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/overview", h.handleOverview)
	mux.HandleFunc("GET /api/v1/system", h.handleSystem)
	mux.HandleFunc("GET /api/v1/reach", h.handleReach)

	mux.HandleFunc("GET /api/v1/wifi/networks", h.handleListNetworks)
	mux.HandleFunc("POST /api/v1/wifi/connect", h.handleConnect)

	mux.HandleFunc("GET /api/v1/config", h.handleListConfig)
	mux.HandleFunc("PUT /api/v1/config/{key}", h.handleUpdateConfig)

	mux.HandleFunc("GET /api/v1/cameras", h.handleListCameras)
	mux.HandleFunc("POST /api/v1/cameras/{id}/capture", h.handleTriggerCapture)
	mux.HandleFunc("GET /api/v1/door", h.handleDoorStatus)
	mux.HandleFunc("POST /api/v1/door/{action}", h.handleDoorAction)
	mux.HandleFunc("GET /api/v1/candidates", h.handleListCandidates)
	mux.HandleFunc("GET /api/v1/logs", h.handleTailLogs)

	mux.HandleFunc("GET /api/v1/sessions", h.handleListSessions)
	mux.HandleFunc("GET /api/v1/sessions/{id}", h.handleGetSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}/evidence", h.handleListEvidence)
	mux.HandleFunc("GET /api/v1/sessions/{id}/analysis", h.handleLatestAnalysis)
	mux.HandleFunc("POST /api/v1/analyses/{id}/review", h.handleSubmitReview)

	mux.HandleFunc("GET /api/v1/evidence/url", h.handleEvidenceURL)
	mux.HandleFunc("GET /api/v1/evidence/image", h.handleEvidenceImage)

	mux.HandleFunc("GET /api/v1/history/sessions", h.handleSessionHistory)
	mux.HandleFunc("GET /api/v1/history/reviews", h.handleReviewHistory)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OverviewResponse aggregates the landing page data in one round trip.
type OverviewResponse struct {
	System         *contract.SystemStatus `json:"system,omitempty"`
	SystemError    string                 `json:"system_error,omitempty"`
	Reachability   *reach.Snapshot        `json:"reachability,omitempty"`
	ActiveSessions []contract.Session     `json:"active_sessions"`
}

// handleOverview returns system status, orchestrator reachability, and the
// active sessions in one payload. Partial failure is tolerated: a dead
// orchestrator still yields the reachability snapshot.
//
//	@Summary	Dashboard overview
//	@Tags		overview
//	@Produce	json
//	@Success	200	{object}	OverviewResponse
//	@Router		/overview [get]
func (h *Handlers) handleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := OverviewResponse{ActiveSessions: []contract.Session{}}

	status, err := query.Fetch(ctx, h.store, "system", h.ttls.Default, h.client.SystemStatus)
	if err != nil {
		resp.SystemError = err.Error()
	} else {
		resp.System = status
	}

	if h.probe != nil {
		if snap, ok := h.probe.Snapshot(); ok {
			resp.Reachability = &snap
		}
	}

	filter := api.SessionFilter{Status: contract.SessionActive}
	sessions, err := query.Fetch(ctx, h.store, "sessions:"+filter.CacheKey(), h.ttls.Session,
		func(ctx context.Context) ([]contract.Session, error) {
			return h.client.ListSessions(ctx, filter)
		})
	if err == nil {
		resp.ActiveSessions = sessions
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleSystem returns the orchestrator system status.
//
//	@Summary	System status
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	contract.SystemStatus
//	@Failure	502	{object}	Problem
//	@Router		/system [get]
func (h *Handlers) handleSystem(w http.ResponseWriter, r *http.Request) {
	status, err := query.Fetch(r.Context(), h.store, "system", h.ttls.Default, h.client.SystemStatus)
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleReach returns the latest ping snapshot for the orchestrator host.
func (h *Handlers) handleReach(w http.ResponseWriter, r *http.Request) {
	if h.probe == nil {
		NotFound(w, "reachability probe disabled", r.URL.Path)
		return
	}
	snap, ok := h.probe.Snapshot()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"ready": false})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleListNetworks returns the orchestrator's WiFi scan results.
//
//	@Summary	List WiFi networks
//	@Tags		wifi
//	@Produce	json
//	@Success	200	{array}		contract.Network
//	@Failure	502	{object}	Problem
//	@Router		/wifi/networks [get]
func (h *Handlers) handleListNetworks(w http.ResponseWriter, r *http.Request) {
	networks, err := query.Fetch(r.Context(), h.store, "wifi:networks", h.ttls.Default, h.client.ListNetworks)
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, networks)
}

// handleConnect joins a WiFi network and invalidates the scan cache.
//
//	@Summary	Connect to WiFi
//	@Tags		wifi
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	api.ConnectResult
//	@Failure	400	{object}	Problem
//	@Failure	502	{object}	Problem
//	@Router		/wifi/connect [post]
func (h *Handlers) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req api.ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body", r.URL.Path)
		return
	}
	if req.SSID == "" {
		BadRequest(w, "ssid is required", r.URL.Path)
		return
	}

	result, err := h.client.Connect(r.Context(), req)
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	h.store.Invalidate("wifi:networks")
	writeJSON(w, http.StatusOK, result)
}

// handleListConfig returns the orchestrator configuration grouped for display.
func (h *Handlers) handleListConfig(w http.ResponseWriter, r *http.Request) {
	entries, err := query.Fetch(r.Context(), h.store, "config", h.ttls.Config, h.client.ListConfig)
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}

	grouped := make(map[contract.ConfigCategory][]contract.ConfigEntry)
	for _, e := range entries {
		cat := contract.CategoryForSection(e.Section)
		grouped[cat] = append(grouped[cat], e)
	}
	writeJSON(w, http.StatusOK, grouped)
}

// handleUpdateConfig writes one configuration value back to the orchestrator.
func (h *Handlers) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body", r.URL.Path)
		return
	}

	entry, err := h.client.UpdateConfig(r.Context(), key, req.Value)
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	h.store.Invalidate("config")
	writeJSON(w, http.StatusOK, entry)
}

// handleListCameras returns attached cameras.
func (h *Handlers) handleListCameras(w http.ResponseWriter, r *http.Request) {
	cameras, err := query.Fetch(r.Context(), h.store, "cameras", h.ttls.Default, h.client.ListCameras)
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, cameras)
}

// handleTriggerCapture asks a camera for an immediate evidence capture.
func (h *Handlers) handleTriggerCapture(w http.ResponseWriter, r *http.Request) {
	capture, err := h.client.TriggerCapture(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	if capture.SessionID != "" {
		h.store.Invalidate("evidence:" + capture.SessionID)
	}
	writeJSON(w, http.StatusAccepted, capture)
}

// handleDoorStatus returns the container door state.
func (h *Handlers) handleDoorStatus(w http.ResponseWriter, r *http.Request) {
	state, err := query.Fetch(r.Context(), h.store, "door", h.ttls.Session, h.client.DoorStatus)
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleDoorAction sends a lock or unlock command.
func (h *Handlers) handleDoorAction(w http.ResponseWriter, r *http.Request) {
	action := api.DoorAction(r.PathValue("action"))
	switch action {
	case api.DoorActionLock, api.DoorActionUnlock:
	default:
		BadRequest(w, fmt.Sprintf("unknown door action %q", action), r.URL.Path)
		return
	}

	state, err := h.client.SetDoor(r.Context(), action)
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	h.store.Invalidate("door")
	writeJSON(w, http.StatusOK, state)
}

// handleListCandidates returns provisioning candidates on the local network.
func (h *Handlers) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := query.Fetch(r.Context(), h.store, "candidates", h.ttls.Default, h.client.ListCandidates)
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

// handleTailLogs returns recent orchestrator log lines. Not cached: a log
// tail that lags its source is useless.
func (h *Handlers) handleTailLogs(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 100)
	logs, err := h.client.TailLogs(r.Context(), limit)
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// handleListSessions returns sessions matching the status/kind filters.
func (h *Handlers) handleListSessions(w http.ResponseWriter, r *http.Request) {
	filter := api.SessionFilter{
		Status: contract.SessionStatus(r.URL.Query().Get("status")),
		Kind:   contract.SessionKind(r.URL.Query().Get("kind")),
		Limit:  intQuery(r, "limit", 0),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		BadRequest(w, fmt.Sprintf("unknown session status %q", filter.Status), r.URL.Path)
		return
	}
	if filter.Kind != "" && !filter.Kind.Valid() {
		BadRequest(w, fmt.Sprintf("unknown session kind %q", filter.Kind), r.URL.Path)
		return
	}

	sessions, err := query.Fetch(r.Context(), h.store, "sessions:"+filter.CacheKey(), h.ttls.Session,
		func(ctx context.Context) ([]contract.Session, error) {
			return h.client.ListSessions(ctx, filter)
		})
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// handleGetSession returns one session and records it in local history.
func (h *Handlers) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	session, err := query.Fetch(r.Context(), h.store, "session:"+id, h.ttls.Session,
		func(ctx context.Context) (*contract.Session, error) {
			return h.client.GetSession(ctx, id)
		})
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}

	if h.history != nil {
		if err := h.history.RecordSession(r.Context(), *session); err != nil {
			h.logger.Warn("record session history", zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, session)
}

// handleListEvidence returns the evidence captures for a session.
func (h *Handlers) handleListEvidence(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	captures, err := query.Fetch(r.Context(), h.store, "evidence:"+id, h.ttls.Session,
		func(ctx context.Context) ([]contract.EvidenceCapture, error) {
			return h.client.ListEvidence(ctx, id)
		})
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, captures)
}

// handleLatestAnalysis returns the latest inventory analysis for a session.
// "No analysis yet" is an empty 200, not a 404; the frontend renders it as
// an empty state.
func (h *Handlers) handleLatestAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	run, err := query.Fetch(r.Context(), h.store, "analysis:"+id, h.ttls.Session,
		func(ctx context.Context) (*contract.InventoryAnalysisRun, error) {
			return h.client.LatestAnalysis(ctx, id)
		})
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	if run == nil {
		writeJSON(w, http.StatusOK, map[string]any{"run": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run":            run,
		"display_status": contract.DisplayStatus(*run),
	})
}

// handleSubmitReview submits an operator decision on an analysis run.
func (h *Handlers) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	var req api.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body", r.URL.Path)
		return
	}
	if !req.Decision.Valid() {
		BadRequest(w, fmt.Sprintf("unknown decision %q", req.Decision), r.URL.Path)
		return
	}
	if req.ReviewedBy == "" {
		BadRequest(w, "reviewed_by is required", r.URL.Path)
		return
	}

	run, err := h.client.SubmitReview(r.Context(), runID, req)
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	h.store.Invalidate("analysis:" + run.SessionID)

	if h.history != nil && run.Review != nil {
		if err := h.history.RecordReview(r.Context(), run.ID, run.SessionID, *run.Review); err != nil {
			h.logger.Warn("record review history", zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, run)
}

// handleEvidenceURL returns a fresh presigned URL for an evidence object.
func (h *Handlers) handleEvidenceURL(w http.ResponseWriter, r *http.Request) {
	objectID := r.URL.Query().Get("object_id")
	if objectID == "" {
		if raw := r.URL.Query().Get("url"); raw != "" {
			objectID = presign.ObjectIDFromURL(raw)
		}
	}
	if objectID == "" {
		BadRequest(w, "object_id or url is required", r.URL.Path)
		return
	}

	fresh, err := h.client.RefreshEvidenceURL(r.Context(), objectID)
	if err != nil {
		WriteUpstreamError(w, err, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, fresh)
}

// handleEvidenceImage proxies an evidence image to the browser, refreshing
// the presigned URL once if the stored one has expired.
func (h *Handlers) handleEvidenceImage(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		BadRequest(w, "url is required", r.URL.Path)
		return
	}
	objectID := r.URL.Query().Get("object_id")
	if objectID == "" {
		objectID = presign.ObjectIDFromURL(rawURL)
	}

	var expiresAt time.Time
	if raw := r.URL.Query().Get("expires_at"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			expiresAt = t
		}
	}

	// Buffer the fetch: load may run twice (once per presigned URL after a
	// refresh), and nothing may touch the ResponseWriter until one attempt
	// has fully succeeded.
	var (
		img         bytes.Buffer
		contentType string
	)
	load := func(ctx context.Context, u string) error {
		img.Reset()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		resp, err := h.imageClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("image fetch: status %d", resp.StatusCode)
		}
		contentType = resp.Header.Get("Content-Type")
		_, err = io.Copy(&img, resp.Body)
		return err
	}

	ref := presign.New(objectID, rawURL, expiresAt, load, h.client.RefreshEvidenceURL, h.logger)
	if err := ref.Load(r.Context()); err != nil {
		WriteProblem(w, Problem{
			Type:     ProblemTypeUpstream,
			Title:    "Bad Gateway",
			Status:   http.StatusBadGateway,
			Detail:   err.Error(),
			Instance: r.URL.Path,
		})
		return
	}

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "private, max-age=60")
	_, _ = w.Write(img.Bytes())
}

// handleSessionHistory returns locally recorded sessions, newest first.
func (h *Handlers) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		NotFound(w, "history disabled", r.URL.Path)
		return
	}
	sessions, err := h.history.RecentSessions(r.Context(), intQuery(r, "limit", 50))
	if err != nil {
		InternalError(w, err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// handleReviewHistory returns locally recorded review decisions, newest first.
func (h *Handlers) handleReviewHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		NotFound(w, "history disabled", r.URL.Path)
		return
	}
	reviews, err := h.history.RecentReviews(r.Context(), intQuery(r, "limit", 50))
	if err != nil {
		InternalError(w, err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func intQuery(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

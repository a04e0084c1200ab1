package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
	"github.com/23blocks-OS/platform-sync/pkg/utils/errutil"
)

func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFromError maps domain error classes to HTTP status codes
func statusFromError(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrEmailConflict):
		return http.StatusConflict
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var record model.SyncRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(types.ErrInvalidRecord, "malformed request body"), http.StatusBadRequest)
		return
	}

	result, err := s.uc.Sync.Reconcile(ctx, record)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusFromError(err))
		return
	}

	statusCode := http.StatusOK
	if result.Outcome == model.ReconcileOutcomeCreated {
		statusCode = http.StatusCreated
	}
	respondJSON(w, statusCode, result)
}

type batchRequest struct {
	Records []model.SyncRecord `json:"records"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(types.ErrInvalidRecord, "malformed request body"), http.StatusBadRequest)
		return
	}

	outcome, err := s.uc.Sync.RunBatch(ctx, req.Records)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusFromError(err))
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	externalID := types.ExternalID(chi.URLParam(r, "externalID"))

	result, err := s.uc.Sync.Deactivate(ctx, externalID)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusFromError(err))
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type syncRunResponse struct {
	ID               types.SyncRunID     `json:"id"`
	Platform         string              `json:"platform"`
	RunType          string              `json:"runType"`
	Status           types.SyncRunStatus `json:"status"`
	RecordsProcessed int                 `json:"recordsProcessed"`
	RecordsFailed    int                 `json:"recordsFailed"`
	Failures         []model.SyncFailure `json:"failures,omitempty"`
	RunAt            time.Time           `json:"runAt"`
}

func toSyncRunResponse(run *model.SyncRun) syncRunResponse {
	return syncRunResponse{
		ID:               run.ID,
		Platform:         run.Platform,
		RunType:          run.RunType,
		Status:           run.Status,
		RecordsProcessed: run.RecordsProcessed,
		RecordsFailed:    run.RecordsFailed,
		Failures:         run.Failures,
		RunAt:            run.RunAt,
	}
}

// parseTimeParam reads an optional RFC 3339 query parameter
func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidRecord, "invalid time parameter",
			goerr.V("param", name), goerr.V("value", raw))
	}
	return &t, nil
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, err := parseTimeParam(r, "from")
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	runs, err := s.uc.Status.ListRuns(ctx, from, to)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusFromError(err))
		return
	}

	resp := make([]syncRunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, toSyncRunResponse(run))
	}
	respondJSON(w, http.StatusOK, map[string]any{"runs": resp})
}

type summaryResponse struct {
	SyncedUsers int              `json:"syncedUsers"`
	LastRun     *syncRunResponse `json:"lastRun,omitempty"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := s.uc.Status.Summary(ctx)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusFromError(err))
		return
	}

	resp := summaryResponse{SyncedUsers: summary.SyncedUsers}
	if summary.LastRun != nil {
		run := toSyncRunResponse(summary.LastRun)
		resp.LastRun = &run
	}
	respondJSON(w, http.StatusOK, resp)
}

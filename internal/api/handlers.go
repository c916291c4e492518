package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/tenantq/internal/usage"
	"github.com/dmitrymomot/tenantq/pkg/keyqueue"
	"github.com/dmitrymomot/tenantq/pkg/logger"
	"github.com/dmitrymomot/tenantq/pkg/tenant"
)

// UsageService is the part of usage.Service the API exposes.
type UsageService interface {
	Consume(ctx context.Context, tenantID string, amount int64) (usage.Record, error)
	Refund(ctx context.Context, tenantID string, amount int64) (usage.Record, error)
	SetLimit(ctx context.Context, tenantID string, limit int64) (usage.Record, error)
	Usage(ctx context.Context, tenantID string) (usage.Record, error)
	ResetPeriod(ctx context.Context) (int, error)
}

type handlers struct {
	svc          UsageService
	logger       *slog.Logger
	maxBodyBytes int64
}

type usageResponse struct {
	TenantID    string    `json:"tenant_id"`
	Used        int64     `json:"used"`
	Limit       int64     `json:"limit"`
	Remaining   int64     `json:"remaining"`
	PeriodStart time.Time `json:"period_start"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

func toResponse(rec usage.Record) usageResponse {
	return usageResponse{
		TenantID:    rec.TenantID,
		Used:        rec.Used,
		Limit:       rec.Limit,
		Remaining:   rec.Remaining(),
		PeriodStart: rec.PeriodStart,
		UpdatedAt:   rec.UpdatedAt,
	}
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type limitRequest struct {
	Limit int64 `json:"limit"`
}

func (h *handlers) getUsage(w http.ResponseWriter, r *http.Request) {
	id, _ := tenant.IDFromContext(r.Context())
	rec, err := h.svc.Usage(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (h *handlers) consume(w http.ResponseWriter, r *http.Request) {
	h.amount(w, r, h.svc.Consume)
}

func (h *handlers) refund(w http.ResponseWriter, r *http.Request) {
	h.amount(w, r, h.svc.Refund)
}

func (h *handlers) amount(w http.ResponseWriter, r *http.Request, op func(context.Context, string, int64) (usage.Record, error)) {
	var req amountRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	id, _ := tenant.IDFromContext(r.Context())
	rec, err := op(r.Context(), id, req.Amount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (h *handlers) setLimit(w http.ResponseWriter, r *http.Request) {
	var req limitRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	id, _ := tenant.IDFromContext(r.Context())
	rec, err := h.svc.SetLimit(r.Context(), id, req.Limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.ResetPeriod(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"reset": n})
}

// fail maps domain errors to HTTP statuses. Anything unrecognized is logged
// and reported as 500 without details.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, usage.ErrInvalidAmount):
		writeError(w, http.StatusUnprocessableEntity, "invalid_amount", err.Error())
	case errors.Is(err, usage.ErrInvalidLimit):
		writeError(w, http.StatusUnprocessableEntity, "invalid_limit", err.Error())
	case errors.Is(err, usage.ErrInvalidTenant):
		writeError(w, http.StatusBadRequest, "invalid_tenant", err.Error())
	case errors.Is(err, usage.ErrQuotaExceeded):
		writeError(w, http.StatusTooManyRequests, "quota_exceeded", err.Error())
	case errors.Is(err, keyqueue.ErrQueueClosed):
		writeError(w, http.StatusServiceUnavailable, "shutting_down", "service is shutting down")
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func tenantError(w http.ResponseWriter, _ *http.Request, err error) {
	switch {
	case errors.Is(err, tenant.ErrNoTenantInContext):
		writeError(w, http.StatusBadRequest, "tenant_required", "X-Tenant-ID header is required")
	case errors.Is(err, tenant.ErrInvalidIdentifier):
		writeError(w, http.StatusBadRequest, "invalid_tenant", "invalid tenant identifier")
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

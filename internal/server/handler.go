package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wattai/wattai/internal/cache"
	"github.com/wattai/wattai/internal/catalog"
	"github.com/wattai/wattai/internal/config"
	"github.com/wattai/wattai/internal/costmodel"
	"github.com/wattai/wattai/internal/metrics"
	"github.com/wattai/wattai/internal/model"
)

// Handler serves the cost estimation API and the index page.
type Handler struct {
	catalog  *catalog.Catalog
	model    *costmodel.Model
	cache    *cache.ResultCache // nil when disabled
	defaults config.DefaultsConfig
	logger   *slog.Logger
}

// NewHandler creates a new request handler. rc may be nil to disable the
// cheapest-option cache.
func NewHandler(c *catalog.Catalog, m *costmodel.Model, rc *cache.ResultCache, defaults config.DefaultsConfig, logger *slog.Logger) *Handler {
	return &Handler{
		catalog:  c,
		model:    m,
		cache:    rc,
		defaults: defaults,
		logger:   logger,
	}
}

// RegisterRoutes registers all HTTP routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /api/gpus", h.handleListGPUs)
	mux.HandleFunc("POST /api/estimate", h.handleEstimate)
	mux.HandleFunc("GET /api/cheapest", h.handleCheapest)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) handleListGPUs(w http.ResponseWriter, r *http.Request) {
	resp := model.GPUListResponse{GPUs: make([]model.GPUInfo, 0, h.catalog.Len())}
	for _, id := range h.catalog.IDs() {
		g, _ := h.catalog.Get(id)
		resp.GPUs = append(resp.GPUs, model.GPUInfo{
			ID:            id,
			Watts:         g.Watts,
			HourlyCostUSD: g.HourlyCostUSD,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req model.EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.EstimateErrors.WithLabelValues("invalid_request").Inc()
		writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error(), nil)
		return
	}

	if req.GPU == "" {
		metrics.EstimateErrors.WithLabelValues("invalid_request").Inc()
		writeError(w, http.StatusBadRequest, "invalid_request", "gpu is required", nil)
		return
	}

	cloud, err := h.model.CloudCost(req.ElectricityCostUSD, req.GPU, req.Hours)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	local, err := h.model.LocalCost(req.ElectricityCostUSD, req.GPU, req.Hours)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}

	verdict := model.Verdict{Cheaper: "equal"}
	switch {
	case cloud.TotalCostUSD < local.TotalCostUSD:
		verdict = model.Verdict{Cheaper: "cloud", SavingsUSD: local.TotalCostUSD - cloud.TotalCostUSD}
	case local.TotalCostUSD < cloud.TotalCostUSD:
		verdict = model.Verdict{Cheaper: "local", SavingsUSD: cloud.TotalCostUSD - local.TotalCostUSD}
	}

	metrics.EstimatesTotal.WithLabelValues("cloud").Inc()
	metrics.EstimatesTotal.WithLabelValues("local").Inc()

	writeJSON(w, http.StatusOK, model.EstimateResponse{
		GPU:     req.GPU,
		Hours:   req.Hours,
		Cloud:   cloud,
		Local:   local,
		Verdict: verdict,
	})
}

func (h *Handler) handleCheapest(w http.ResponseWriter, r *http.Request) {
	electricity := h.defaults.ElectricityCostUSD
	hours := h.defaults.BenchmarkHours

	if v := r.URL.Query().Get("electricity_cost"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "electricity_cost must be a number", nil)
			return
		}
		electricity = f
	}
	if v := r.URL.Query().Get("hours"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "hours must be a number", nil)
			return
		}
		hours = f
	}

	if err := costmodel.Validate(electricity, hours); err != nil {
		h.writeModelError(w, r, err)
		return
	}

	if h.cache != nil {
		if entry, ok := h.cache.Get(electricity, hours); ok {
			metrics.CheapestCacheHits.Inc()
			w.Header().Set("X-Cache", "HIT")
			writeJSON(w, http.StatusOK, entry.Result)
			return
		}
		metrics.CheapestCacheMisses.Inc()
		w.Header().Set("X-Cache", "MISS")
	}

	metrics.CheapestScans.Inc()
	opt, found := h.model.Cheapest(electricity, hours, func(gpuID string, err error) {
		metrics.CheapestScanSkips.Inc()
		h.logger.Warn("skipping gpu in cheapest scan",
			"gpu", gpuID,
			"error", err,
			"request_id", GetRequestID(r.Context()),
		)
	})

	res := &model.CheapestResult{
		Found:              found,
		ElectricityCostUSD: electricity,
		Hours:              hours,
	}
	if found {
		res.Label = opt.Label
		res.TotalCostUSD = opt.TotalCostUSD
	}

	if h.cache != nil {
		h.cache.Put(electricity, hours, res)
	}
	writeJSON(w, http.StatusOK, res)
}

// writeModelError maps cost model errors onto the API error taxonomy.
func (h *Handler) writeModelError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *costmodel.GPUNotFoundError
	if errors.As(err, &notFound) {
		metrics.EstimateErrors.WithLabelValues("gpu_not_found").Inc()
		writeError(w, http.StatusNotFound, "gpu_not_found", err.Error(), notFound.Valid)
		return
	}

	var invalid *costmodel.InvalidInputError
	if errors.As(err, &invalid) {
		metrics.EstimateErrors.WithLabelValues("invalid_input").Inc()
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return
	}

	h.logger.Error("unexpected cost model error", "error", err, "request_id", GetRequestID(r.Context()))
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, message string, validGPUs []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: model.ErrorDetail{
			Message:   message,
			Type:      errType,
			ValidGPUs: validGPUs,
		},
	})
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"hrdash/analytics"
	"hrdash/db"
	"hrdash/ml"
	"hrdash/prediction"
)

// History lists recent predictions. *db.Store satisfies it; a nil store
// answers db.ErrHistoryDisabled.
type History interface {
	RecentPredictions(ctx context.Context, limit int) ([]prediction.Outcome, error)
}

const maxHistoryLimit = 1000

type handlers struct {
	predictor    *prediction.Service
	reporter     *analytics.Reporter
	history      History
	historyLimit int
	feed         http.Handler
	metrics      http.Handler
	logger       *zap.Logger
	page         *template.Template
	static       fs.FS
}

func newHandlers(deps Deps) (*handlers, error) {
	if deps.Predictor == nil || deps.Reporter == nil {
		return nil, errors.New("predictor and reporter are required")
	}
	page, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		return nil, err
	}
	h := &handlers{
		predictor:    deps.Predictor,
		reporter:     deps.Reporter,
		history:      deps.History,
		historyLimit: deps.HistoryLimit,
		feed:         deps.Feed,
		logger:       deps.Logger,
		page:         page,
		static:       static,
	}
	if h.historyLimit <= 0 {
		h.historyLimit = 20
	}
	if deps.Metrics != nil {
		h.metrics = deps.Metrics.Handler()
	}
	return h, nil
}

func (h *handlers) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleDashboard)
	mux.HandleFunc("POST /predict", h.handleDashboardPredict)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(h.static)))

	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/options", h.handleOptions)
	mux.HandleFunc("GET /api/report", h.handleReport)
	mux.HandleFunc("POST /api/predict", h.handlePredict)
	mux.HandleFunc("GET /api/predictions", h.handlePredictions)
	if h.feed != nil {
		mux.Handle("GET /api/ws", h.feed)
	}
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type optionsResponse struct {
	Filters analytics.FilterOptions `json:"filters"`
	Fields  []ml.FieldSpec          `json:"fields"`
	Domains map[string][]string     `json:"domains"`
	Scaling ml.Scaling              `json:"scaling"`
}

func (h *handlers) handleOptions(w http.ResponseWriter, r *http.Request) {
	enc := h.predictor.Encoder()
	h.respond(w, r, http.StatusOK, optionsResponse{
		Filters: analytics.Options(h.reporter.Dataset()),
		Fields:  ml.FieldSpecs(),
		Domains: enc.Domains(),
		Scaling: enc.Scaling(),
	})
}

func (h *handlers) handleReport(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, analytics.DefaultFilter(h.reporter.Dataset()))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respond(w, r, http.StatusOK, h.reporter.Report(filter))
}

type predictError struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Kind  string `json:"kind"`
}

func (h *handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	outcome, err := h.predictor.Predict(r.Context(), raw)
	if err != nil {
		status, body := h.predictFailure(r, err)
		h.respond(w, r, status, body)
		return
	}
	h.respond(w, r, http.StatusOK, outcome)
}

// predictFailure maps a Predict error to a status and response body.
func (h *handlers) predictFailure(r *http.Request, err error) (int, predictError) {
	body := predictError{Error: prediction.ErrorMessage(err), Kind: ml.ErrorKind(err)}
	var fieldErr *ml.FieldError
	if errors.As(err, &fieldErr) {
		body.Field = fieldErr.Field
		return http.StatusUnprocessableEntity, body
	}
	h.logger.Error("prediction failed",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.Error(err))
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable, body
	}
	return http.StatusInternalServerError, body
}

func (h *handlers) handlePredictions(w http.ResponseWriter, r *http.Request) {
	limit := h.historyLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxHistoryLimit {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit))
			return
		}
		limit = n
	}

	outcomes, err := h.recent(r.Context(), limit)
	if err != nil {
		if errors.Is(err, db.ErrHistoryDisabled) {
			respondError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.logger.Error("load prediction history", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load prediction history")
		return
	}
	h.respond(w, r, http.StatusOK, map[string]any{
		"predictions": outcomes,
		"limit":       limit,
	})
}

func (h *handlers) recent(ctx context.Context, limit int) ([]prediction.Outcome, error) {
	if h.history == nil {
		return nil, db.ErrHistoryDisabled
	}
	return h.history.RecentPredictions(ctx, limit)
}

// parseFilter reads age_min, age_max, gender and job_role over defaults.
func parseFilter(r *http.Request, defaults analytics.Filter) (analytics.Filter, error) {
	if err := r.ParseForm(); err != nil {
		return defaults, err
	}
	f := defaults
	for name, dst := range map[string]*float64{"age_min": &f.AgeMin, "age_max": &f.AgeMax} {
		s := r.Form.Get(name)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return defaults, fmt.Errorf("%s must be a number", name)
		}
		*dst = v
	}
	if s := r.Form.Get("gender"); s != "" {
		f.Gender = s
	}
	if s := r.Form.Get("job_role"); s != "" {
		f.JobRole = s
	}
	return f.Normalize(), nil
}

// respondJSON encodes data in full before writing. An encoding failure is
// answered with 500 and returned.
func respondJSON(w http.ResponseWriter, status int, data any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal server error"}` + "\n"))
		return fmt.Errorf("encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respond is respondJSON with failures logged against the request.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := respondJSON(w, status, data); err != nil {
		h.logger.Error("write response",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
}

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/bryanwahyu/factsense/internal/application/analysis"
	domain "github.com/bryanwahyu/factsense/internal/domain/analysis"
	statsdomain "github.com/bryanwahyu/factsense/internal/domain/stats"
	"github.com/bryanwahyu/factsense/internal/middleware"
)

const defaultHistoryLimit = 10

type Router struct {
	svc   *appanalysis.Service
	debug bool
}

func NewRouter(svc *appanalysis.Service, debug bool) http.Handler {
	r := &Router{svc: svc, debug: debug}
	mux := chi.NewRouter()

	mux.Post("/analyze", r.wrap(r.handleAnalyze))
	mux.Get("/history", r.wrap(r.handleHistory))
	mux.Get("/stats", r.wrap(r.handleStats))
	mux.Get("/{id}", r.wrap(r.handleGet))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap translate error domain ke status + envelope {success:false,...}
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			r.writeError(w, http.StatusBadRequest, verr.Msg, nil)
			return
		}
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
			r.writeError(w, http.StatusNotFound, "analysis not found", nil)
			return
		}

		var cerr *domain.ClassificationError
		if errors.As(err, &cerr) {
			log.Printf("classification error: %v", err)
			r.writeError(w, http.StatusInternalServerError, "content analysis failed", err)
			return
		}
		var serr *domain.StorageError
		if errors.As(err, &serr) {
			log.Printf("storage error: %v", err)
			r.writeError(w, http.StatusInternalServerError, "internal storage error", err)
			return
		}

		log.Printf("unexpected error: %v", err)
		r.writeError(w, http.StatusInternalServerError, "internal server error", err)
	}
}

type successBody struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError: detail internal cuma keluar di mode debug
func (r *Router) writeError(w http.ResponseWriter, status int, message string, err error) {
	body := errorBody{Success: false, Message: message}
	if r.debug && err != nil {
		body.Error = err.Error()
	}
	writeJSON(w, status, body)
}

// POST /analyze
// Body: {"inputType": "text|image|video|voice", "inputData": "<payload>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		InputType string `json:"inputType"`
		InputData string `json:"inputData"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return domain.NewValidationError("invalid JSON body: %v", err)
	}

	cmd := appanalysis.AnalyzeCommand{
		InputType: body.InputType,
		InputData: middleware.SanitizeString(body.InputData),
		Metadata:  middleware.MetadataFromRequest(req),
	}

	record, err := r.svc.Analyze(req.Context(), cmd)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	middleware.IncrementAnalyses()
	if record.Verdict.IsMisinfo {
		middleware.IncrementMisinfoVerdicts()
	}

	data := struct {
		*domain.Analysis
		AnalysisID     domain.ID `json:"analysisId"`
		ProcessingTime int64     `json:"processingTime"`
	}{
		Analysis:       record,
		AnalysisID:     record.ID,
		ProcessingTime: record.ProcessingTimeMS,
	}
	writeJSON(w, http.StatusOK, successBody{Success: true, Data: data})
	return nil
}

// GET /history?page=&limit=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	page := 1
	if v := req.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.NewValidationError("invalid page: %q", v)
		}
		page = n
	}
	limit := defaultHistoryLimit
	if v := req.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.NewValidationError("invalid limit: %q", v)
		}
		limit = n
	}

	result, err := r.svc.History(req.Context(), page, limit)
	if err != nil {
		return err
	}

	resp := struct {
		Success    bool              `json:"success"`
		Data       []*domain.Summary `json:"data"`
		Pagination struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
			Pages int   `json:"pages"`
		} `json:"pagination"`
	}{Success: true, Data: result.Data}
	resp.Pagination.Page = result.Page
	resp.Pagination.Limit = result.Limit
	resp.Pagination.Total = result.Total
	resp.Pagination.Pages = result.Pages

	writeJSON(w, http.StatusOK, resp)
	return nil
}

// GET /stats?timeFilter=24h|7d|30d|90d
// nilai tidak dikenal jatuh ke 7d, bukan error
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	window := statsdomain.ParseWindow(req.URL.Query().Get("timeFilter"))
	snap, err := r.svc.Summary(req.Context(), window)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, successBody{Success: true, Data: snap})
	return nil
}

// GET /{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	record, err := r.svc.Get(req.Context(), domain.ID(id))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, successBody{Success: true, Data: record})
	return nil
}

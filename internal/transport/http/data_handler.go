package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "edupulse/internal/errors"
	"edupulse/internal/exporter"
	appmw "edupulse/internal/middleware"
	"edupulse/internal/services"
	"edupulse/pkg/contracts/domain"
)

// DataHandler handles dataset HTTP requests with RFC 7807 compliance
type DataHandler struct {
	service        DataServiceInterface
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	validation     *appmw.ValidationMiddleware
	maxUploadBytes int64
}

// NewDataHandler creates a new data handler with RFC 7807 error handling
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, validation *appmw.ValidationMiddleware, maxUploadBytes int64) *DataHandler {
	return &DataHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "data_handler")),
		errorHandler:   errorHandler,
		validation:     validation,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the data routes with proper Chi patterns
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/upload", h.Upload)
	r.Get("/dataset", h.GetDataset)

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(appmw.ContentTypeValidator("application/json"))
		r.Post("/process", h.Process)
		r.Get("/summary", h.GetSummary)
		r.Get("/breakdown", h.GetBreakdown)
	})

	r.Route("/export/{format}", func(r chi.Router) {
		r.Use(h.FormatCtx)
		r.Get("/", h.Export)
	})

	return r
}

// FormatCtx middleware validates the export format parameter
func (h *DataHandler) FormatCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := strings.ToLower(chi.URLParam(r, "format"))
		if format != "csv" && format != "xlsx" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", fmt.Sprintf("unsupported format: %s", format)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Upload handles POST /api/data/upload. The dataset arrives either as
// a multipart "file" part or as the raw request body.
func (h *DataHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	sourceName, data, err := h.readUpload(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "upload rejected",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	info, err := h.service.Upload(r.Context(), sourceName, data)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "upload failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("source", sourceName),
		)

		switch {
		case errors.Is(err, services.ErrEmptyUpload):
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusUnprocessableEntity,
				"EMPTY_DATASET",
				"Upload contains no parsable student records",
				sourceName,
			))
		case errors.Is(err, services.ErrUploadTooLarge):
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
		default:
			h.errorHandler.HandleError(w, r, err)
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"dataset": info,
	})
}

// readUpload extracts the payload from a multipart form or raw body.
func (h *DataHandler) readUpload(r *http.Request) (string, []byte, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			return "", nil, fmt.Errorf("parse multipart form: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, fmt.Errorf("missing form field %q: %w", "file", err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, fmt.Errorf("read upload: %w", err)
		}
		return header.Filename, data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read body: %w", err)
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.csv"
	}
	return name, data, nil
}

// Process handles POST /api/data/process with a filter spec body
func (h *DataHandler) Process(w http.ResponseWriter, r *http.Request) {
	var spec domain.FilterSpec
	if err := render.DecodeJSON(r.Body, &spec); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	spec.Normalize()

	if err := h.validation.ValidateStruct(&spec); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Process(r.Context(), spec)
	if err != nil {
		h.handleDatasetError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// GetSummary handles GET /api/data/summary
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.handleDatasetError(w, r, err)
		return
	}

	info, _ := h.service.Dataset()
	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"summary": summary,
		"dataset": info,
	})
}

// GetBreakdown handles GET /api/data/breakdown?by=program|advisor
func (h *DataHandler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	by := r.URL.Query().Get("by")
	if by == "" {
		by = "program"
	}
	if by != "program" && by != "advisor" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("by", fmt.Sprintf("unknown dimension: %s", by)))
		return
	}

	spec, err := h.filterSpecFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	groups, err := h.service.Breakdown(r.Context(), by, spec)
	if err != nil {
		h.handleDatasetError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"by":     by,
		"groups": groups,
		"count":  len(groups),
	})
}

// Export handles GET /api/data/export/{format}
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))

	spec, err := h.filterSpecFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Process(r.Context(), spec)
	if err != nil {
		h.handleDatasetError(w, r, err)
		return
	}
	profiles, err := h.service.Profiles(r.Context(), spec)
	if err != nil {
		h.handleDatasetError(w, r, err)
		return
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="student_profiles.csv"`)
		if err := exporter.WriteCSVTo(w, exporter.ProfileHeaders(), exporter.ProfileRows(profiles)); err != nil {
			h.logger.ErrorContext(r.Context(), "csv export failed",
				slog.String("error", err.Error()),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		}

	case "xlsx":
		programs, err := h.service.Breakdown(r.Context(), "program", spec)
		if err != nil {
			h.handleDatasetError(w, r, err)
			return
		}
		workbook, err := exporter.BuildWorkbook(result.Summary, profiles, programs)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		defer workbook.Close()

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="student_report.xlsx"`)
		if err := workbook.Write(w); err != nil {
			h.logger.ErrorContext(r.Context(), "xlsx export failed",
				slog.String("error", err.Error()),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		}
	}
}

// GetDataset handles GET /api/data/dataset
func (h *DataHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	info, ok := h.service.Dataset()
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"dataset": info,
	})
}

// exportQuery carries the filter query parameters shared by the
// breakdown and export endpoints.
type exportQuery struct {
	RiskLevel string `json:"risk_level" validate:"riskband"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// filterSpecFromQuery builds a FilterSpec from query parameters.
// Programs and advisors are comma-separated lists.
func (h *DataHandler) filterSpecFromQuery(r *http.Request) (domain.FilterSpec, error) {
	q := r.URL.Query()

	query := exportQuery{
		RiskLevel: q.Get("risk_level"),
		Start:     q.Get("start"),
		End:       q.Get("end"),
	}
	if err := h.validation.ValidateStruct(&query); err != nil {
		return domain.FilterSpec{}, err
	}

	spec := domain.FilterSpec{
		Programs:  splitList(q.Get("programs")),
		Advisors:  splitList(q.Get("advisors")),
		DateRange: domain.DateRange{Start: query.Start, End: query.End},
		RiskLevel: domain.RiskLevel(query.RiskLevel),
	}
	spec.Normalize()
	return spec, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// handleDatasetError maps service errors to API errors before
// delegating to the shared handler.
func (h *DataHandler) handleDatasetError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "dataset request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if errors.Is(err, services.ErrNoDataset) {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}
	h.errorHandler.HandleError(w, r, err)
}

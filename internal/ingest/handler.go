package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/swastik-pharma/vetstore/internal/auth"
	"github.com/swastik-pharma/vetstore/internal/platform/httpx"
)

const formField = "file"

// Handler exposes the ingestion pipelines over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	maxBytes int64
	timeout  time.Duration
}

// NewHandler constructs a Handler. maxBytes bounds the request body; timeout
// is the write deadline granted to a single run.
func NewHandler(logger *slog.Logger, service *Service, maxBytes int64, timeout time.Duration) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, maxBytes: maxBytes, timeout: timeout}
}

// MountProductRoutes registers upload, sync and template under the admin
// products prefix.
func (h *Handler) MountProductRoutes(r chi.Router) {
	r.Post("/upload", h.handleUpload)
	r.Post("/sync", h.handleSync)
	r.Get("/template", h.handleTemplate)
}

// MountRunRoutes registers the run history listing.
func (h *Handler) MountRunRoutes(r chi.Router) {
	r.Get("/", h.handleRuns)
}

type uploadResponse struct {
	Success bool          `json:"success"`
	Results UploadSummary `json:"results"`
}

type invalidUploadResponse struct {
	Error   string        `json:"error"`
	Errors  []string      `json:"errors"`
	Results UploadSummary `json:"results"`
}

type syncResponse struct {
	Success bool        `json:"success"`
	Results SyncSummary `json:"results"`
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	h.extendDeadlines(w)
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Upload(context.WithoutCancel(r.Context()), in)
	switch {
	case errors.Is(err, ErrAllRowsInvalid):
		httpx.JSON(w, http.StatusBadRequest, invalidUploadResponse{
			Error:   "All rows have errors",
			Errors:  summary.Errors,
			Results: summary,
		})
	case err != nil:
		h.respondRunError(w, "upload", err)
	default:
		httpx.JSON(w, http.StatusOK, uploadResponse{Success: true, Results: summary})
	}
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	h.extendDeadlines(w)
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Sync(context.WithoutCancel(r.Context()), in)
	if err != nil {
		h.respondRunError(w, "sync", err)
		return
	}
	httpx.JSON(w, http.StatusOK, syncResponse{Success: true, Results: summary})
}

// extendDeadlines replaces the server read and write timeouts with the
// ingestion timeout for this connection. Runs are detached from client
// cancellation by the callers.
func (h *Handler) extendDeadlines(w http.ResponseWriter) {
	if h.timeout <= 0 {
		return
	}
	deadline := time.Now().Add(h.timeout)
	rc := http.NewResponseController(w)
	if err := rc.SetReadDeadline(deadline); err != nil {
		h.logger.Warn("extend ingestion read deadline", slog.Any("error", err))
	}
	if err := rc.SetWriteDeadline(deadline); err != nil {
		h.logger.Warn("extend ingestion write deadline", slog.Any("error", err))
	}
}

func (h *Handler) readInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	file, header, err := r.FormFile(formField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.Problem(w, http.StatusRequestEntityTooLarge, "Payload Too Large",
				fmt.Sprintf("File exceeds the %d byte upload limit", tooLarge.Limit))
			return Input{}, false
		}
		h.respondRunError(w, "read upload", ErrNoFile)
		return Input{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Warn("read uploaded file", slog.String("filename", header.Filename), slog.Any("error", err))
		h.respondRunError(w, "read upload", ErrEmptyFile)
		return Input{}, false
	}

	in := Input{Filename: header.Filename, Data: data}
	if admin := auth.AdminFromContext(r.Context()); admin != nil {
		in.AdminID = admin.ID
	}
	return in, true
}

// respondRunError maps request-level ingestion failures to 400 problems.
func (h *Handler) respondRunError(w http.ResponseWriter, op string, err error) {
	var msg string
	switch {
	case errors.Is(err, ErrNoFile):
		msg = "No file uploaded"
	case errors.Is(err, ErrUnsupportedFormat):
		msg = "Unsupported file format. Please upload CSV or Excel file."
	case errors.Is(err, ErrEmptyFile):
		msg = "File is empty or could not be parsed"
	default:
		h.logger.Error(op+" failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Problem(w, http.StatusBadRequest, "Bad Request", msg)
}

func (h *Handler) handleTemplate(w http.ResponseWriter, r *http.Request) {
	kind := Kind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = KindUpload
	}
	var (
		fields []Field
		name   string
	)
	switch kind {
	case KindUpload:
		fields, name = UploadFields, "product-upload-template"
	case KindSync:
		fields, name = SyncFields, "stock-sync-template"
	default:
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "kind must be upload or sync")
		return
	}

	format := Format(r.URL.Query().Get("format"))
	if format == "" {
		format = FormatCSV
	}
	body, err := BuildTemplate(format, TemplateHeaders(fields))
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "format must be csv or xlsx")
			return
		}
		h.logger.Error("build template", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	filename := name + "." + string(format)
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// BuildTemplate renders a header-only sheet in csv or xlsx.
func BuildTemplate(format Format, headers []string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatCSV:
		cw := csv.NewWriter(&buf)
		if err := cw.Write(headers); err != nil {
			return nil, err
		}
		cw.Flush()
		return buf.Bytes(), cw.Error()
	case FormatXLSX:
		f := excelize.NewFile()
		defer f.Close()
		row := make([]any, len(headers))
		for i, h := range headers {
			row[i] = h
		}
		sheet := f.GetSheetName(0)
		if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
			return nil, fmt.Errorf("write template header: %w", err)
		}
		if err := f.Write(&buf); err != nil {
			return nil, fmt.Errorf("write template: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

func (h *Handler) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	runs, err := h.service.RecentRuns(r.Context(), limit)
	if err != nil {
		h.logger.Error("list ingestion runs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string][]Run{"runs": runs})
}

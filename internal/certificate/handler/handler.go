// Package handler is the thin HTTP layer over the certificate service. It
// parses requests, enforces the upload bounds, and translates domain errors
// to status codes; it holds no business logic.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"certchain/internal/certificate/models"
	"certchain/pkg/domainerrors"
)

// Service defines the interface for certificate operations.
type Service interface {
	Issue(ctx context.Context, req models.IssueRequest) (*models.Certificate, error)
	Get(ctx context.Context, id string) (*models.Certificate, error)
	List(ctx context.Context) ([]models.Certificate, error)
	UpdateIssuer(ctx context.Context, id, issuer string) (*models.IssuerUpdate, error)
	Verify(ctx context.Context, id string) models.VerificationResult
	RenderPDF(ctx context.Context, id string) ([]byte, error)
	Ping(ctx context.Context) error
	ServerIP() string
	PublicBaseURL() string
}

// imageFieldName is the multipart field carrying the certificate image.
const imageFieldName = "certificateImage"

// allowedImageTypes is the sniffed content-type allowlist for uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/webp": true,
}

// Handler handles certificate endpoints.
type Handler struct {
	logger         *slog.Logger
	service        Service
	maxUploadBytes int64
}

func New(service Service, logger *slog.Logger, maxUploadBytes int64) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Register registers the certificate routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/certificates", func(r chi.Router) {
		r.Post("/", h.handleIssue)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}/issuer", h.handleUpdateIssuer)
		r.Get("/{id}/pdf", h.handlePDF)
	})
	r.Get("/verify/{id}", h.handleVerify)
	r.Get("/status", h.handleStatus)
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Bound the payload before any parsing; oversized uploads fail fast with
	// no external side effects.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		writeError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid or oversized multipart form"))
		return
	}
	// Large parts spill to temp files; release them whatever the outcome.
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile(imageFieldName)
	if err != nil {
		writeError(w, domainerrors.New(domainerrors.CodeBadRequest, "certificate image is required"))
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, domainerrors.New(domainerrors.CodeBadRequest, "failed to read certificate image"))
		return
	}
	if !allowedImageTypes[http.DetectContentType(imageBytes)] {
		writeError(w, domainerrors.New(domainerrors.CodeBadRequest, "only image files are allowed"))
		return
	}

	cert, err := h.service.Issue(ctx, models.IssueRequest{
		CertificateID: r.FormValue("certificateId"),
		StudentName:   r.FormValue("studentName"),
		Issuer:        r.FormValue("issuer"),
		IssueDate:     r.FormValue("issueDate"),
		Image:         imageBytes,
	})
	if err != nil {
		h.logError(ctx, "issuance failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cert)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	certs, err := h.service.List(r.Context())
	if err != nil {
		h.logError(r.Context(), "list failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, certs)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	cert, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

func (h *Handler) handleUpdateIssuer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Issuer string `json:"issuer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	update, err := h.service.UpdateIssuer(r.Context(), chi.URLParam(r, "id"), body.Issuer)
	if err != nil {
		h.logError(r.Context(), "issuer update failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := h.service.RenderPDF(r.Context(), id)
	if err != nil {
		h.logError(r.Context(), "pdf generation failed", err)
		// The PDF endpoint answers 404 for every pipeline failure; the
		// caller cannot act on the distinction.
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "certificate not found or PDF generation failed",
		})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=certificate-%s.pdf", id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	// Always 200: the result body carries the verdict.
	result := h.service.Verify(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logError(r.Context(), "ledger connectivity check failed", err)
		writeJSON(w, http.StatusInternalServerError, models.Status{
			Status:  "error",
			Message: "Blockchain connection failed",
		})
		return
	}
	writeJSON(w, http.StatusOK, models.Status{
		Status:   "connected",
		Message:  "Blockchain connection successful",
		ServerIP: h.service.ServerIP(),
		AccessURLs: map[string]string{
			"local":   "http://localhost" + portSuffix(h.service.PublicBaseURL()),
			"network": h.service.PublicBaseURL(),
		},
	})
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg, "error", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates a domain error into the JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	writeJSON(w, domainerrors.ToHTTPStatus(code), map[string]string{
		"error":   string(code),
		"message": domainerrors.Message(err),
	})
}

// portSuffix extracts ":port" from a base URL like http://host:port.
func portSuffix(baseURL string) string {
	for i := len(baseURL) - 1; i >= 0; i-- {
		if baseURL[i] == ':' {
			return baseURL[i:]
		}
		if baseURL[i] == '/' || baseURL[i] == ']' {
			break
		}
	}
	return ""
}

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"certvault/internal/document/models"
	"certvault/internal/platform/metrics"
	"certvault/internal/platform/middleware"
	"certvault/internal/transport/http/shared"
	dErrors "certvault/pkg/domain-errors"
)

// Service defines the document operations the HTTP layer needs.
type Service interface {
	Add(ctx context.Context, ownerPhone string, doc models.Document) (models.StoredDocument, error)
	List(ctx context.Context, ownerPhone string) ([]models.StoredDocument, error)
	Find(ctx context.Context, ownerPhone, certType, identifier string) (models.StoredDocument, error)
}

// Handler handles certificate upload, listing and lookup endpoints.
type Handler struct {
	logger            *slog.Logger
	documents         Service
	metrics           *metrics.Metrics
	validator         middleware.TokenValidator
	allowLegacyHeader bool
}

func New(
	documents Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	validator middleware.TokenValidator,
	allowLegacyHeader bool,
) *Handler {
	return &Handler{
		logger:            logger,
		documents:         documents,
		metrics:           metrics,
		validator:         validator,
		allowLegacyHeader: allowLegacyHeader,
	}
}

// Register registers the document routes with the chi router. Uploads require
// an authenticated caller; reads are keyed by path only.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.LatencyMiddleware(h.metrics))

		r.Group(func(r chi.Router) {
			r.Use(middleware.ContentTypeJSON)
			r.Use(middleware.RequireIdentity(h.validator, h.allowLegacyHeader, h.logger))
			r.Post("/certificate/add", h.handleAddCertificate)
		})
		r.Get("/certificate/get/{mobile}", h.handleListCertificates)
		r.Get("/document/{mobile}/{type}/{identifier}", h.handleGetDocument)
	})
}

func (h *Handler) handleAddCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	caller := middleware.GetCallerPhone(ctx)
	if caller == "" {
		h.logger.ErrorContext(ctx, "caller phone missing from context despite auth middleware",
			"request_id", requestID,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req AddCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(ctx, "invalid certificate add request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	stored, err := h.documents.Add(ctx, caller, req.document())
	if err != nil {
		h.writeServiceError(ctx, w, "certificate add failed", err)
		return
	}

	h.logger.InfoContext(ctx, "certificate added",
		"request_id", requestID,
		"phone", caller,
		"certificate_type", stored.CertificateType,
	)
	shared.WriteJSON(w, http.StatusOK, AddCertificateResponse{Message: "Certificate added", ID: stored.ID})
}

func (h *Handler) handleListCertificates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mobile, err := url.PathUnescape(chi.URLParam(r, "mobile"))
	if err != nil || mobile == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "mobile is required"))
		return
	}

	docs, err := h.documents.List(ctx, mobile)
	if err != nil {
		h.writeServiceError(ctx, w, "certificate list failed", err)
		return
	}
	if docs == nil {
		docs = []models.StoredDocument{}
	}

	shared.WriteJSON(w, http.StatusOK, CertificateListResponse{Mobile: mobile, Certificates: docs})
}

func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mobile, mErr := url.PathUnescape(chi.URLParam(r, "mobile"))
	certType, tErr := url.PathUnescape(chi.URLParam(r, "type"))
	identifier, iErr := url.PathUnescape(chi.URLParam(r, "identifier"))
	if mErr != nil || tErr != nil || iErr != nil || mobile == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "mobile, type and identifier are required"))
		return
	}

	doc, err := h.documents.Find(ctx, mobile, certType, identifier)
	if err != nil {
		h.writeServiceError(ctx, w, "document lookup failed", err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, DocumentResponse{Status: "success", Document: doc})
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	requestID := middleware.GetRequestID(ctx)
	switch dErrors.CodeOf(err) {
	case dErrors.CodeBadRequest, dErrors.CodeNotFound, dErrors.CodeUnauthorized:
		h.logger.WarnContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
	default:
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "internal error"))
	}
}

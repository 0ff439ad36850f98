package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mssola/useragent"

	"certvault/internal/identity/models"
	"certvault/internal/identity/service"
	"certvault/internal/platform/metrics"
	"certvault/internal/platform/middleware"
	"certvault/internal/transport/http/shared"
	dErrors "certvault/pkg/domain-errors"
)

// Service defines the identity operations the HTTP layer needs.
type Service interface {
	StartRegistration(ctx context.Context, phone, name string) (string, error)
	VerifyRegistration(ctx context.Context, phone, code string) (models.User, error)
	StartLogin(ctx context.Context, phone string) (string, error)
	VerifyLogin(ctx context.Context, phone, code, device string) (service.LoginResult, error)
	GetUser(ctx context.Context, phone string) (models.User, error)
}

// Handler handles registration, login and user lookup endpoints.
type Handler struct {
	logger   *slog.Logger
	identity Service
	metrics  *metrics.Metrics
}

func New(identity Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		identity: identity,
		metrics:  metrics,
	}
}

// Register registers the identity routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.LatencyMiddleware(h.metrics))

		r.Group(func(r chi.Router) {
			r.Use(middleware.ContentTypeJSON)
			r.Post("/register", h.handleStartRegistration)
			r.Post("/register/verify-otp", h.handleVerifyRegistration)
			r.Post("/login", h.handleStartLogin)
			r.Post("/login/verify-otp", h.handleVerifyLogin)
		})
		r.Get("/user/{mobile}", h.handleGetUser)
	})
}

func (h *Handler) handleStartRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req StartRegistrationRequest
	if err := decode(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid registration request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	status, err := h.identity.StartRegistration(ctx, req.Phone, req.Name)
	if err != nil {
		h.writeServiceError(ctx, w, "start registration failed", err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, OTPSentResponse{Message: "OTP sent", Status: status})
}

func (h *Handler) handleVerifyRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req VerifyOTPRequest
	if err := decode(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid registration verify request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	user, err := h.identity.VerifyRegistration(ctx, req.Phone, req.OTP)
	if err != nil {
		h.writeServiceError(ctx, w, "registration verify failed", err)
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		"request_id", requestID,
		"phone", user.Phone,
	)
	shared.WriteJSON(w, http.StatusOK, RegistrationResponse{
		Message: "Registration successful",
		Name:    user.Name,
		Phone:   user.Phone,
	})
}

func (h *Handler) handleStartLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req StartLoginRequest
	if err := decode(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid login request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	status, err := h.identity.StartLogin(ctx, req.Phone)
	if err != nil {
		h.writeServiceError(ctx, w, "start login failed", err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, OTPSentResponse{Message: "OTP sent", Status: status})
}

func (h *Handler) handleVerifyLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req VerifyOTPRequest
	if err := decode(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid login verify request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	result, err := h.identity.VerifyLogin(ctx, req.Phone, req.OTP, deviceName(r.UserAgent()))
	if err != nil {
		h.writeServiceError(ctx, w, "login verify failed", err)
		return
	}

	h.logger.InfoContext(ctx, "login succeeded",
		"request_id", requestID,
		"phone", result.User.Phone,
	)
	shared.WriteJSON(w, http.StatusOK, loginResponse(result))
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mobile, err := url.PathUnescape(chi.URLParam(r, "mobile"))
	if err != nil || mobile == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "mobile is required"))
		return
	}

	user, err := h.identity.GetUser(ctx, mobile)
	if err != nil {
		h.writeServiceError(ctx, w, "user lookup failed", err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, UserResponse{Status: "success", User: user})
}

// writeServiceError forwards domain rejections as-is and masks everything
// else as an internal error.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	requestID := middleware.GetRequestID(ctx)
	code := dErrors.CodeOf(err)
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeNotFound, dErrors.CodeConflict, dErrors.CodeUnauthorized:
		h.logger.WarnContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
	case dErrors.CodeUnavailable:
		h.logger.ErrorContext(ctx, msg,
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

func decode(r *http.Request, req interface{ Validate() error }) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return req.Validate()
}

// deviceName reduces a raw User-Agent to a short browser/OS label for session
// claims and the audit trail.
func deviceName(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	parts := make([]string, 0, 2)
	if name != "" {
		if version != "" {
			name += " " + version
		}
		parts = append(parts, name)
	}
	if os := ua.OS(); os != "" {
		parts = append(parts, os)
	}
	return strings.Join(parts, " on ")
}

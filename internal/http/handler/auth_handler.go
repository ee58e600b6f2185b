package handler

import (
	"errors"
	"net/http"

	"github.com/sandeepkv93/catalog-service/internal/http/middleware"
	"github.com/sandeepkv93/catalog-service/internal/http/response"
	"github.com/sandeepkv93/catalog-service/internal/observability"
	"github.com/sandeepkv93/catalog-service/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthServiceInterface
}

func NewAuthHandler(authSvc service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50"`
	FullName string `json:"fullName" validate:"required,min=1"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := decodeAndValidate(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.authSvc.Register(r.Context(), service.RegisterInput{
		Email:    body.Email,
		FullName: body.FullName,
		Password: body.Password,
	})
	if err != nil {
		observability.EmitAudit(r, observability.AuditInput{
			EventName:  "auth.register",
			TargetType: "user",
			Action:     "register",
			Outcome:    "failure",
			Reason:     outcomeReason(err),
		})
		writeError(w, r, err)
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "auth.register",
		ActorUserID: res.User.ID.String(),
		TargetType:  "user",
		TargetID:    res.User.ID.String(),
		Action:      "register",
		Outcome:     "success",
		Reason:      "user_created",
	})
	response.JSON(w, r, http.StatusCreated, res)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := decodeAndValidate(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.authSvc.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		observability.EmitAudit(r, observability.AuditInput{
			EventName:  "auth.login",
			TargetType: "user",
			Action:     "login",
			Outcome:    "failure",
			Reason:     outcomeReason(err),
		})
		writeError(w, r, err)
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "auth.login",
		ActorUserID: res.User.ID.String(),
		TargetType:  "user",
		TargetID:    res.User.ID.String(),
		Action:      "login",
		Outcome:     "success",
		Reason:      "credentials_valid",
	})
	response.JSON(w, r, http.StatusOK, res)
}

// CheckStatus re-issues a token for the already authenticated caller.
func (h *AuthHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "User not found (request)", nil)
		return
	}
	res, err := h.authSvc.CheckStatus(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, res)
}

func outcomeReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, service.ErrValidation):
		return "invalid_input"
	case errors.Is(err, service.ErrUnauthorized):
		return "invalid_credentials"
	default:
		return "internal_error"
	}
}

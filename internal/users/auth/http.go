// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomira-auth/internal/platform/request"
	"github.com/taibuivan/yomira-auth/internal/platform/respond"
	"github.com/taibuivan/yomira-auth/internal/platform/validate"
)

const maxUsernameLen = 64

// Handler implements the /auth endpoints.
type Handler struct {
	authService *Service
	loginGuard  func(http.Handler) http.Handler
}

// NewHandler constructs a [Handler]. loginGuard wraps the login route only,
// typically with a strict per-IP rate limit.
func NewHandler(service *Service, loginGuard func(http.Handler) http.Handler) *Handler {
	if loginGuard == nil {
		loginGuard = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{authService: service, loginGuard: loginGuard}
}

// Routes returns the authentication routes.
//
//	POST /login          credentials for a token pair (rate limited)
//	POST /token/refresh  rotates a refresh token
//	POST /logout         revokes one of the caller's refresh tokens
//	GET  /me             claims of the bearer token
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.loginGuard).Post("/login", endpoint(handler.login))
	router.Post("/token/refresh", endpoint(handler.refresh))

	router.With(middleware.RequireAuth).Post("/logout", endpoint(handler.logout))
	router.With(middleware.RequireAuth).Get("/me", endpoint(handler.me))

	return router
}

// endpoint renders the error of fn through [respond.Error].
func endpoint(fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if err := fn(writer, request); err != nil {
			respond.Error(writer, request, err)
		}
	}
}

// # Request Payloads

type checked interface {
	check(*validate.Validator)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (in loginRequest) check(v *validate.Validator) {
	v.Required(constants.FieldUsername, in.Username).
		MaxLen(constants.FieldUsername, in.Username, maxUsernameLen).
		Required(constants.FieldPassword, in.Password).
		Password(constants.FieldPassword, in.Password)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (in refreshRequest) check(v *validate.Validator) {
	v.Required(constants.FieldRefreshToken, in.RefreshToken)
}

// bind decodes the body into T and runs its field checks.
func bind[T checked](request *http.Request) (T, error) {
	input, err := requestutil.Decode[T](request)
	if err != nil {
		return input, err
	}
	validator := &validate.Validator{}
	input.check(validator)
	return input, validator.Err()
}

type meResponse struct {
	AccountID   string    `json:"account_id"`
	Username    string    `json:"username"`
	Roles       []string  `json:"roles"`
	Authorities []string  `json:"authorities"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// # Endpoints

/*
login handles POST /api/v1/auth/login.

Response:
  - 200: TokenPair
  - 401: INVALID_CREDENTIALS
  - 403: ACCOUNT_DISABLED
  - 423: ACCOUNT_LOCKED
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) error {
	input, err := bind[loginRequest](request)
	if err != nil {
		return err
	}

	pair, err := handler.authService.Login(request.Context(), input.Username, input.Password)
	if err != nil {
		return err
	}
	respond.OK(writer, pair)
	return nil
}

// refresh handles POST /api/v1/auth/token/refresh. Failures are 401
// INVALID_TOKEN or ACCOUNT_NOT_FOUND.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) error {
	input, err := bind[refreshRequest](request)
	if err != nil {
		return err
	}

	pair, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		return err
	}
	respond.OK(writer, pair)
	return nil
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) error {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return err
	}
	input, err := bind[refreshRequest](request)
	if err != nil {
		return err
	}

	if err := handler.authService.Logout(request.Context(), input.RefreshToken, claims.Username()); err != nil {
		return err
	}
	respond.NoContent(writer)
	return nil
}

func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) error {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return err
	}

	response := meResponse{
		AccountID:   claims.AccountID,
		Username:    claims.Username(),
		Roles:       claims.Roles,
		Authorities: claims.Authorities,
	}
	if claims.ExpiresAt != nil {
		response.ExpiresAt = claims.ExpiresAt.Time
	}
	respond.OK(writer, response)
	return nil
}

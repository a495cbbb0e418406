// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lock

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	requestutil "github.com/taibuivan/yomira-auth/internal/platform/request"
	"github.com/taibuivan/yomira-auth/internal/platform/respond"
	"github.com/taibuivan/yomira-auth/internal/users/account"
)

// Handler exposes the administrative lock. Mount it behind an ADMIN guard.
type Handler struct {
	service *Service
}

// NewHandler creates the lock handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the /accounts sub-router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/{username}/lock", handler.lock)
	return router
}

func (handler *Handler) lock(writer http.ResponseWriter, request *http.Request) {
	locked, err := handler.service.Lock(request.Context(), requestutil.Param(request, "username"))
	if errors.Is(err, account.ErrAccountNotFound) {
		err = apperr.NotFound("Account")
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, locked)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	requestutil "github.com/taibuivan/yomira-auth/internal/platform/request"
	"github.com/taibuivan/yomira-auth/internal/platform/respond"
	"github.com/taibuivan/yomira-auth/pkg/pagination"
)

// Handler serves /permissions. Mount behind an ADMIN guard.
type Handler struct {
	service *Service
}

// NewHandler creates the permission handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the permission sub-router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Delete("/{id}", handler.delete)
	return router
}

type createRequest struct {
	Name string `json:"name"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	filter := Filter{Name: request.URL.Query().Get("name")}

	permissions, total, err := handler.service.List(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, permissions, page.Meta(total))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	input, err := requestutil.Decode[createRequest](request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	permission, err := handler.service.Create(request.Context(), input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, permission)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, ok := requestutil.PathID(request, "id")
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Permission"))
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	requestutil "github.com/taibuivan/yomira-auth/internal/platform/request"
	"github.com/taibuivan/yomira-auth/internal/platform/respond"
	"github.com/taibuivan/yomira-auth/pkg/convert"
	"github.com/taibuivan/yomira-auth/pkg/pagination"
)

// Handler serves /roles. Mount behind an ADMIN guard.
type Handler struct {
	service *Service
}

// NewHandler creates the role handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the role sub-router.
//
// # Endpoints
//   - GET    /                              : List (name, deleted, page, limit).
//   - POST   /                              : Create.
//   - GET    /{id}                          : Find.
//   - PATCH  /{id}                          : Rename.
//   - DELETE /{id}                          : Soft-delete.
//   - POST   /{id}/permissions/{permissionId} : Attach.
//   - DELETE /{id}/permissions/{permissionId} : Detach.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	router.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.find)
		r.Patch("/", handler.rename)
		r.Delete("/", handler.delete)
		r.Post("/permissions/{permissionId}", handler.attach)
		r.Delete("/permissions/{permissionId}", handler.detach)
	})

	return router
}

type nameRequest struct {
	Name string `json:"name"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	query := request.URL.Query()
	filter := Filter{
		Name:    query.Get("name"),
		Deleted: convert.ToOptionalBool(query.Get("deleted")),
	}

	roles, total, err := handler.service.List(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, roles, page.Meta(total))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	input, err := requestutil.Decode[nameRequest](request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	role, err := handler.service.Create(request.Context(), input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, role)
}

func (handler *Handler) find(writer http.ResponseWriter, request *http.Request) {
	id, ok := idParam(writer, request, "id", ErrRoleNotFound)
	if !ok {
		return
	}

	role, err := handler.service.Find(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, role)
}

func (handler *Handler) rename(writer http.ResponseWriter, request *http.Request) {
	id, ok := idParam(writer, request, "id", ErrRoleNotFound)
	if !ok {
		return
	}

	input, err := requestutil.Decode[nameRequest](request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	role, err := handler.service.Rename(request.Context(), id, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, role)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, ok := idParam(writer, request, "id", ErrRoleNotFound)
	if !ok {
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) attach(writer http.ResponseWriter, request *http.Request) {
	roleID, ok := idParam(writer, request, "id", ErrRoleNotFound)
	if !ok {
		return
	}
	permissionID, ok := idParam(writer, request, "permissionId", apperr.NotFound("Permission"))
	if !ok {
		return
	}

	role, err := handler.service.AttachPermission(request.Context(), roleID, permissionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, role)
}

func (handler *Handler) detach(writer http.ResponseWriter, request *http.Request) {
	roleID, ok := idParam(writer, request, "id", ErrRoleNotFound)
	if !ok {
		return
	}
	permissionID, ok := idParam(writer, request, "permissionId", ErrRolePermissionNotExists)
	if !ok {
		return
	}

	role, err := handler.service.DetachPermission(request.Context(), roleID, permissionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, role)
}

// idParam parses a positive identity id, answering with notFound otherwise.
func idParam(writer http.ResponseWriter, request *http.Request, name string, notFound error) (int64, bool) {
	id, ok := requestutil.PathID(request, name)
	if !ok {
		respond.Error(writer, request, notFound)
		return 0, false
	}
	return id, true
}

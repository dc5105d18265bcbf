package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/taxonomy/internal/platform/identity"
	"github.com/taibuivan/taxonomy/internal/platform/middleware"
	requestutil "github.com/taibuivan/taxonomy/internal/platform/request"
	"github.com/taibuivan/taxonomy/internal/platform/respond"
	"github.com/taibuivan/taxonomy/internal/platform/validate"
	"github.com/taibuivan/taxonomy/pkg/pagination"
	"github.com/taibuivan/taxonomy/pkg/pointer"
	"github.com/taibuivan/taxonomy/pkg/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Get("/{id}/hierarchy", handler.hierarchy)

	// Editor/Admin only — creation included, so the taxonomy cannot be
	// grown anonymously.
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireRole(identity.RoleEditor))

		protected.Post("/", handler.create)
		protected.Put("/{id}", handler.update)
		protected.Delete("/{id}", handler.delete)
		protected.Put("/{id}/hierarchy", handler.reparent)
	})

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter, err := filterFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	categories, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if categories == nil {
		categories = []*Category{}
	}

	respond.List(writer, "categories", categories, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := categoryID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Entity(writer, "category", found)
}

func (handler *Handler) hierarchy(writer http.ResponseWriter, request *http.Request) {
	id, err := categoryID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	nodes, err := handler.service.Hierarchy(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Entity(writer, "hierarchy", nodes)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, "category", created)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := categoryID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Entity(writer, "category", updated)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := categoryID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) reparent(writer http.ResponseWriter, request *http.Request) {
	id, err := categoryID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ReparentInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Reparent(request.Context(), id, input.ParentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Entity(writer, "category", updated)
}

// categoryID extracts and validates the {id} URL parameter.
func categoryID(request *http.Request) (string, error) {
	id := requestutil.ID(request, "id")
	if !uuid.IsValid(id) {
		return "", validate.RequiredError("id", "Must be a valid UUID")
	}
	return id, nil
}

// filterFromRequest parses the list query parameters.
//
// parentId accepts a UUID (direct children), the literal "null" (roots
// only), or may be omitted (no parent filter). isActive defaults to true
// and is only lifted by an explicit isActive=false.
func filterFromRequest(request *http.Request) (Filter, error) {
	query := request.URL.Query()
	filter := Filter{
		Search:   query.Get("search"),
		SortBy:   query.Get("sortBy"),
		SortDesc: query.Get("sortOrder") == "desc",
		IsActive: pointer.To(query.Get("isActive") != "false"),
	}

	switch parentID := query.Get("parentId"); parentID {
	case "":
		// no parent filter
	case "null":
		filter.RootOnly = true
	default:
		if !uuid.IsValid(parentID) {
			return Filter{}, validate.RequiredError("parentId", "Must be a valid UUID or \"null\"")
		}
		filter.ParentID = pointer.To(parentID)
	}

	return filter, nil
}

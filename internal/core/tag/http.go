package tag

import (
	"net/http"
	"strconv"

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
	router.Get("/popular", handler.popular)
	router.Get("/{id}", handler.get)

	// Editor/Admin only
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireRole(identity.RoleEditor))

		protected.Post("/", handler.create)
		protected.Put("/{id}", handler.update)
		protected.Delete("/{id}", handler.delete)
	})

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := filterFromRequest(request)

	tags, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if tags == nil {
		tags = []*Tag{}
	}

	respond.List(writer, "tags", tags, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) popular(writer http.ResponseWriter, request *http.Request) {
	limit := 0
	if raw := request.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respond.Error(writer, request, validate.RequiredError("limit", "Must be a positive integer"))
			return
		}
		limit = parsed
	}

	tags, err := handler.service.Popular(request.Context(), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Entity(writer, "tags", tags)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := tagID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Entity(writer, "tag", found)
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
	respond.Created(writer, "tag", created)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := tagID(request)
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
	respond.Entity(writer, "tag", updated)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := tagID(request)
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

// tagID extracts and validates the {id} URL parameter.
func tagID(request *http.Request) (string, error) {
	id := requestutil.ID(request, "id")
	if !uuid.IsValid(id) {
		return "", validate.RequiredError("id", "Must be a valid UUID")
	}
	return id, nil
}

// filterFromRequest parses the list query parameters. isActive defaults to
// true and is only lifted by an explicit isActive=false. The sort defaults
// to usage_count descending (most-used first); only an explicit
// sortOrder=asc flips the direction.
func filterFromRequest(request *http.Request) Filter {
	query := request.URL.Query()
	return Filter{
		Search:   query.Get("search"),
		SortBy:   query.Get("sortBy"),
		SortDesc: query.Get("sortOrder") != "asc",
		IsActive: pointer.To(query.Get("isActive") != "false"),
	}
}

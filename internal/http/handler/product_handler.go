package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sandeepkv93/catalog-service/internal/domain"
	"github.com/sandeepkv93/catalog-service/internal/http/response"
	"github.com/sandeepkv93/catalog-service/internal/observability"
	"github.com/sandeepkv93/catalog-service/internal/repository"
	"github.com/sandeepkv93/catalog-service/internal/service"
)

type ProductHandler struct {
	svc service.CatalogService
}

func NewProductHandler(svc service.CatalogService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type createProductRequest struct {
	Title       string   `json:"title" validate:"required,min=1"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0"`
	Description *string  `json:"description"`
	Slug        *string  `json:"slug"`
	Stock       *int     `json:"stock" validate:"omitnil,gte=0"`
	Sizes       []string `json:"sizes" validate:"required,min=1,dive,required"`
	Gender      string   `json:"gender" validate:"required,oneof=men women kid unisex"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required"`
	Images      []string `json:"images" validate:"omitempty,dive,required"`
}

type updateProductRequest struct {
	Title       *string   `json:"title" validate:"omitnil,min=1"`
	Price       *float64  `json:"price" validate:"omitnil,gte=0"`
	Description *string   `json:"description"`
	Slug        *string   `json:"slug"`
	Stock       *int      `json:"stock" validate:"omitnil,gte=0"`
	Sizes       *[]string `json:"sizes" validate:"omitnil,min=1,dive,required"`
	Gender      *string   `json:"gender" validate:"omitnil,oneof=men women kid unisex"`
	Tags        *[]string `json:"tags" validate:"omitnil,dive,required"`
	Images      *[]string `json:"images" validate:"omitnil,dive,required"`
}

type listProductsQuery struct {
	Limit  int `json:"limit" validate:"gt=0,lte=100"`
	Offset int `json:"offset" validate:"gte=0"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}
	var body createProductRequest
	if err := decodeAndValidate(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	in := service.CreateProductInput{
		Title:       body.Title,
		Slug:        body.Slug,
		Description: body.Description,
		Sizes:       body.Sizes,
		Gender:      domain.Gender(body.Gender),
		Tags:        body.Tags,
		Images:      body.Images,
	}
	if body.Price != nil {
		in.Price = *body.Price
	}
	if body.Stock != nil {
		in.Stock = *body.Stock
	}
	created, err := h.svc.Create(r.Context(), in, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "product.create",
		ActorUserID: actor.ID.String(),
		TargetType:  "product",
		TargetID:    created.ID.String(),
		Action:      "create",
		Outcome:     "success",
		Reason:      "product_created",
	}, "slug", created.Slug)
	response.JSON(w, r, http.StatusCreated, created)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.svc.FindAll(r.Context(), repository.OffsetRequest{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, items)
}

// Get resolves {term} as an id, title or slug.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.FindOnePlain(r.Context(), chi.URLParam(r, "term"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, view)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var body updateProductRequest
	if err := decodeAndValidate(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	in := service.UpdateProductInput{
		Title:       body.Title,
		Slug:        body.Slug,
		Description: body.Description,
		Price:       body.Price,
		Stock:       body.Stock,
		Sizes:       body.Sizes,
		Tags:        body.Tags,
		Images:      body.Images,
	}
	if body.Gender != nil {
		g := domain.Gender(*body.Gender)
		in.Gender = &g
	}
	updated, err := h.svc.Update(r.Context(), id, in, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "product.update",
		ActorUserID: actor.ID.String(),
		TargetType:  "product",
		TargetID:    id.String(),
		Action:      "update",
		Outcome:     "success",
		Reason:      "product_updated",
	}, "slug", updated.Slug, "images_replaced", body.Images != nil)
	response.JSON(w, r, http.StatusOK, updated)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Remove(r.Context(), id, actor); err != nil {
		writeError(w, r, err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "product.delete",
		ActorUserID: actor.ID.String(),
		TargetType:  "product",
		TargetID:    id.String(),
		Action:      "delete",
		Outcome:     "success",
		Reason:      "product_deleted",
	})
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}

// DeleteAll empties the catalog. The route is restricted to admins.
func (h *ProductHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}
	deleted, err := h.svc.DeleteAllProducts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "product.delete_all",
		ActorUserID: actor.ID.String(),
		TargetType:  "product",
		Action:      "delete_all",
		Outcome:     "success",
		Reason:      "catalog_cleared",
	}, "deleted", deleted)
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": deleted})
}

func parseListQuery(r *http.Request) (listProductsQuery, error) {
	q := listProductsQuery{Limit: repository.DefaultLimit}
	values := r.URL.Query()
	var msgs []string
	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			msgs = append(msgs, "limit must be an integer number")
		}
		q.Limit = n
	}
	if raw := values.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			msgs = append(msgs, "offset must be an integer number")
		}
		q.Offset = n
	}
	if len(msgs) > 0 {
		return q, &badRequest{messages: msgs}
	}
	return q, validateStruct(q)
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil || len(raw) != 36 {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "Validation failed (uuid is expected)", nil)
		return uuid.Nil, false
	}
	return id, true
}

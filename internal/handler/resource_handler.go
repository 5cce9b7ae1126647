package handler

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bizdesk-api/internal/middleware"
	"bizdesk-api/internal/model"
	"bizdesk-api/internal/repository"
	"bizdesk-api/internal/service"
	"bizdesk-api/pkg/storage"
)

// maxUploadSize caps a single photo.
const maxUploadSize = 5 << 20

// reserved query parameters; everything else is offered to the entity filters.
var reserved = map[string]bool{
	"q": true, "sortBy": true, "orderBy": true, "itemsPerPage": true, "page": true, "branch_id": true,
}

// ResourceHandler exposes one resource manager as list/create/show/update/destroy.
type ResourceHandler[T any, PT model.Record[T]] struct {
	res *service.Resource[T, PT]
}

func NewResourceHandler[T any, PT model.Record[T]](res *service.Resource[T, PT]) *ResourceHandler[T, PT] {
	return &ResourceHandler[T, PT]{res: res}
}

// List handles GET /<resource>?q=&sortBy=&orderBy=&itemsPerPage=&page=
// The response is {"<resource>": [...], "total": n}.
func (h *ResourceHandler[T, PT]) List(c *fiber.Ctx) error {
	sc, err := middleware.Scope(c)
	if err != nil {
		return respondError(c, err)
	}

	page, err := h.res.List(c.UserContext(), sc, ParseListQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		h.res.Name(): page.Items,
		"total":      page.Total,
	})
}

func (h *ResourceHandler[T, PT]) Show(c *fiber.Ctx) error {
	sc, err := middleware.Scope(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	rec, err := h.res.Get(c.UserContext(), sc, id)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "", rec)
}

func (h *ResourceHandler[T, PT]) Create(c *fiber.Ctx) error {
	sc, err := middleware.Scope(c)
	if err != nil {
		return respondError(c, err)
	}
	rec := PT(new(T))
	if err := c.BodyParser(rec); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid request body")
	}
	file, err := h.upload(c)
	if err != nil {
		return respondError(c, err)
	}

	created, err := h.res.Create(c.UserContext(), sc, rec, file)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusCreated, h.res.Label()+" created successfully", created)
}

func (h *ResourceHandler[T, PT]) Update(c *fiber.Ctx) error {
	sc, err := middleware.Scope(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	rec := PT(new(T))
	if err := c.BodyParser(rec); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid request body")
	}
	file, err := h.upload(c)
	if err != nil {
		return respondError(c, err)
	}

	updated, err := h.res.Update(c.UserContext(), sc, id, rec, file)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, h.res.Label()+" updated successfully", updated)
}

func (h *ResourceHandler[T, PT]) Delete(c *fiber.Ctx) error {
	sc, err := middleware.Scope(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.res.Delete(c.UserContext(), sc, id); err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, h.res.Label()+" deleted successfully", nil)
}

// Register mounts the five routes, each guarded by <resource>.<action>.
// Register mounts the CRUD routes under path. guard runs ahead of the
// permission check on every route.
func (h *ResourceHandler[T, PT]) Register(r fiber.Router, path string, guard fiber.Handler) {
	perm := func(action string) fiber.Handler {
		return middleware.RequirePermission(model.PermissionCode(h.res.Name(), action))
	}
	r.Get(path, guard, perm(model.ActionView), h.List)
	r.Post(path, guard, perm(model.ActionCreate), h.Create)
	r.Get(path+"/:id", guard, perm(model.ActionView), h.Show)
	r.Put(path+"/:id", guard, perm(model.ActionUpdate), h.Update)
	r.Patch(path+"/:id", guard, perm(model.ActionUpdate), h.Update)
	r.Delete(path+"/:id", guard, perm(model.ActionDelete), h.Delete)
}

// upload reads the resource's file field from a multipart body, if any.
func (h *ResourceHandler[T, PT]) upload(c *fiber.Ctx) (*storage.Upload, error) {
	field, ok := h.res.HasFile()
	if !ok || !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if err != nil {
		// Field absent: keep the current file
		return nil, nil
	}
	if fh.Size > maxUploadSize {
		return nil, service.Invalid(field, "The "+field+" may not be greater than 5 MB.")
	}
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, service.Invalid(field, "The "+field+" must be an image.")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, service.Invalid(field, "The "+field+" failed to upload.")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, service.Invalid(field, "The "+field+" failed to upload.")
	}
	return &storage.Upload{Filename: fh.Filename, ContentType: contentType, Size: fh.Size, Body: bytes.NewReader(data)}, nil
}

// ParseListQuery reads q, sortBy, orderBy, itemsPerPage and page plus entity filters.
func ParseListQuery(c *fiber.Ctx) repository.ListQuery {
	q := repository.ListQuery{
		Search:  c.Query("q"),
		SortBy:  c.Query("sortBy"),
		OrderBy: c.Query("orderBy"),
		Page:    atoi(c.Query("page"), 1),
		PerPage: atoi(c.Query("itemsPerPage"), repository.DefaultPerPage),
		Filters: map[string]string{},
	}
	for key, value := range c.Queries() {
		if !reserved[key] {
			q.Filters[key] = value
		}
	}
	return q
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		// Malformed ids cannot exist in any tenant
		return uuid.Nil, service.ErrNotFound
	}
	return id, nil
}

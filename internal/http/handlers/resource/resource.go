// Package resource contains the HTTP handlers shared by every zoo resource.
//
// One generic Handler[T] serves users, zookeepers, habitats and animals. The
// per-resource differences (labels, validator, builder) live in a Kind[T].
//
// Handlers never see net/http. They take a Request and return a Response;
// the router adapts both ends. That keeps every handler path testable as a
// plain function call and guarantees exactly one response per request.
package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/zoo-api/internal/storage"
	"github.com/aanand-mishra/zoo-api/internal/types"
	"github.com/aanand-mishra/zoo-api/internal/utils/response"
	"github.com/aanand-mishra/zoo-api/internal/validation"
)

// Request is the transport-neutral view of an incoming call.
type Request struct {
	Method string
	Path   string
	Params map[string]string
	Body   map[string]any
}

// Param returns the named path parameter or "".
func (r Request) Param(name string) string {
	return r.Params[name]
}

// Response is what a handler produces. A nil Body means no body is written.
type Response struct {
	Status int
	Body   any
}

// Kind describes one resource type.
type Kind[T types.Entity[T]] struct {
	// Name is the singular label used in messages ("Animal").
	Name string
	// Plural is the collection path segment ("animals").
	Plural string
	// Schema validates candidate payloads.
	Schema *validation.Schema
	// Build turns a valid payload into a record without identity.
	Build func(validation.Payload) T
}

// Operations is the type-erased surface the router binds.
type Operations interface {
	Name() string
	Plural() string
	Schema() *validation.Schema

	List(ctx context.Context, req Request) Response
	Get(ctx context.Context, req Request) Response
	Create(ctx context.Context, req Request) Response
	Update(ctx context.Context, req Request) Response
	Delete(ctx context.Context, req Request) Response
}

// Handler serves the five CRUD operations for one resource.
type Handler[T types.Entity[T]] struct {
	kind  Kind[T]
	store storage.Store[T]
	log   *slog.Logger
}

// New returns a Handler for kind backed by store.
func New[T types.Entity[T]](kind Kind[T], store storage.Store[T], log *slog.Logger) *Handler[T] {
	return &Handler[T]{
		kind:  kind,
		store: store,
		log:   log.With(slog.String("resource", kind.Plural)),
	}
}

func (h *Handler[T]) Name() string               { return h.kind.Name }
func (h *Handler[T]) Plural() string             { return h.kind.Plural }
func (h *Handler[T]) Schema() *validation.Schema { return h.kind.Schema }

// ─────────────────────────────────────────────────────────────────────────────
// List handles GET /api/<plural>
// Always 200 with a JSON array, [] when the store is empty.
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler[T]) List(ctx context.Context, _ Request) Response {
	h.log.Debug("listing records")

	records, err := h.store.List(ctx)
	if err != nil {
		return h.fault("list", err)
	}
	if records == nil {
		records = []T{}
	}
	return Response{Status: http.StatusOK, Body: records}
}

// ─────────────────────────────────────────────────────────────────────────────
// Get handles GET /api/<plural>/{id}
//
//	200 the record
//	404 { "message": "<Kind> not found" }
//
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler[T]) Get(ctx context.Context, req Request) Response {
	id := req.Param("id")
	h.log.Debug("getting record", slog.String("id", id))

	rec, err := h.store.Get(ctx, id)
	if err != nil {
		return h.storeError("get", err)
	}
	return Response{Status: http.StatusOK, Body: rec}
}

// ─────────────────────────────────────────────────────────────────────────────
// Create handles POST /api/<plural>
//
//	201 the stored record, identifier included
//	400 { "message": "<first violated rule>" }
//	409 { "message": "<Kind> already exists" } when the body names a taken id
//
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler[T]) Create(ctx context.Context, req Request) Response {
	payload := validation.Payload(req.Body)

	if res := h.kind.Schema.Validate(payload); !res.Valid {
		h.log.Debug("rejected create", slog.String("reason", res.Message))
		return message(http.StatusBadRequest, res.Message)
	}

	created, err := h.store.Create(ctx, payload.CandidateID(), h.kind.Build(payload))
	if err != nil {
		return h.storeError("create", err)
	}

	h.log.Info("record created", slog.String("id", created.GetID()))
	return Response{Status: http.StatusCreated, Body: created}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/<plural>/{id}
//
// Existence is checked before the payload: an unknown id is a 404 even when
// the body is invalid too.
//
//	200 the updated record, identifier unchanged
//	404 { "message": "<Kind> not found" }
//	400 { "message": "<first violated rule>" }
//
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler[T]) Update(ctx context.Context, req Request) Response {
	id := req.Param("id")

	if _, err := h.store.Get(ctx, id); err != nil {
		return h.storeError("update", err)
	}

	payload := validation.Payload(req.Body)
	if res := h.kind.Schema.Validate(payload); !res.Valid {
		h.log.Debug("rejected update", slog.String("id", id), slog.String("reason", res.Message))
		return message(http.StatusBadRequest, res.Message)
	}

	updated, err := h.store.Update(ctx, id, h.kind.Build(payload))
	if err != nil {
		return h.storeError("update", err)
	}

	h.log.Info("record updated", slog.String("id", id))
	return Response{Status: http.StatusOK, Body: updated}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/<plural>/{id}
//
//	204 no body
//	404 { "message": "<Kind> not found" }
//
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler[T]) Delete(ctx context.Context, req Request) Response {
	id := req.Param("id")

	if err := h.store.Delete(ctx, id); err != nil {
		return h.storeError("delete", err)
	}

	h.log.Info("record deleted", slog.String("id", id))
	return Response{Status: http.StatusNoContent}
}

// storeError maps the storage sentinels onto client responses and
// everything else onto a 500.
func (h *Handler[T]) storeError(op string, err error) Response {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return message(http.StatusNotFound, fmt.Sprintf("%s not found", h.kind.Name))
	case errors.Is(err, storage.ErrAlreadyExists):
		return message(http.StatusConflict, fmt.Sprintf("%s already exists", h.kind.Name))
	default:
		return h.fault(op, err)
	}
}

func (h *Handler[T]) fault(op string, err error) Response {
	h.log.Error("storage failure", slog.String("op", op), slog.String("error", err.Error()))
	return Response{Status: http.StatusInternalServerError, Body: response.GeneralError(err)}
}

func message(status int, msg string) Response {
	return Response{Status: status, Body: response.Error(msg)}
}

var _ Operations = (*Handler[types.Animal])(nil)

// Package router turns resource handlers into HTTP routes.
//
// The API surface is declared once as a []Route table. The same table is
// bound onto chi by Mount and rendered into the OpenAPI document by the
// docs package, so the two can never drift apart.
package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/zoo-api/internal/http/handlers/resource"
	"github.com/aanand-mishra/zoo-api/internal/utils/response"
	"github.com/aanand-mishra/zoo-api/internal/validation"
)

// Operation names.
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Fixed client-facing messages.
const (
	MsgRouteNotFound = "Route not found"
	MsgInvalidJSON   = "Invalid JSON body"
	MsgNotAnObject   = "Request body must be a JSON object"
	MsgBodyTooLarge  = "Request body too large"
)

// MaxBodyBytes caps the size of request bodies.
const MaxBodyBytes = 1 << 20

// Handle is the transport-neutral handler signature.
type Handle func(ctx context.Context, req resource.Request) resource.Response

// Route is one entry of the API table.
type Route struct {
	Method    string
	Pattern   string
	Resource  string // singular label, e.g. "Animal"
	Plural    string // collection segment, e.g. "animals"
	Operation string
	Summary   string

	// Schema is set on routes that take a JSON body.
	Schema *validation.Schema

	Handle Handle
}

// HasBody reports whether the route reads a request body.
func (rt Route) HasBody() bool {
	return rt.Schema != nil
}

// Routes builds the five CRUD routes of every resource, in order.
func Routes(ops ...resource.Operations) []Route {
	var routes []Route
	for _, op := range ops {
		collection := "/api/" + op.Plural()
		item := collection + "/{id}"
		name, plural := op.Name(), op.Plural()
		lower := strings.ToLower(name)

		routes = append(routes,
			Route{Method: http.MethodGet, Pattern: collection, Resource: name, Plural: plural,
				Operation: OpList, Summary: fmt.Sprintf("List all %s", plural), Handle: op.List},
			Route{Method: http.MethodGet, Pattern: item, Resource: name, Plural: plural,
				Operation: OpGet, Summary: fmt.Sprintf("Get a %s by id", lower), Handle: op.Get},
			Route{Method: http.MethodPost, Pattern: collection, Resource: name, Plural: plural,
				Operation: OpCreate, Summary: fmt.Sprintf("Create a %s", lower), Schema: op.Schema(), Handle: op.Create},
			Route{Method: http.MethodPut, Pattern: item, Resource: name, Plural: plural,
				Operation: OpUpdate, Summary: fmt.Sprintf("Replace a %s", lower), Schema: op.Schema(), Handle: op.Update},
			Route{Method: http.MethodDelete, Pattern: item, Resource: name, Plural: plural,
				Operation: OpDelete, Summary: fmt.Sprintf("Delete a %s", lower), Handle: op.Delete},
		)
	}
	return routes
}

// Mount registers routes on r, together with the JSON 404 fallback used for
// unknown paths and for known paths with an unsupported method.
func Mount(r chi.Router, routes []Route) {
	for _, rt := range routes {
		r.Method(rt.Method, rt.Pattern, Adapt(rt))
	}
	r.NotFound(NotFound)
	r.MethodNotAllowed(NotFound)
}

// NotFound writes 404 {"message":"Route not found"}.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	_ = response.WriteError(w, http.StatusNotFound, MsgRouteNotFound)
}

// Adapt converts rt into an http.Handler: it builds the resource.Request
// from the URL and body, calls the handler and writes its Response.
func Adapt(rt Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := resource.Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Params: map[string]string{},
		}
		if id := chi.URLParam(r, "id"); id != "" {
			req.Params["id"] = id
		}

		if rt.HasBody() {
			body, status, msg := decodeBody(w, r)
			if status != 0 {
				_ = response.WriteError(w, status, msg)
				return
			}
			req.Body = body
		}

		write(w, rt.Handle(r.Context(), req))
	}
}

func write(w http.ResponseWriter, res resource.Response) {
	if res.Body == nil {
		w.WriteHeader(res.Status)
		return
	}
	_ = response.WriteJSON(w, res.Status, res.Body)
}

// decodeBody reads a JSON object from r. Numbers are kept as json.Number so
// validators can tell 10 from 10.5. An empty body decodes as {}.
// On failure it returns the status and message to send.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, int, string) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, MsgBodyTooLarge
		}
		return nil, http.StatusBadRequest, MsgInvalidJSON
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return map[string]any{}, 0, ""
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, http.StatusBadRequest, MsgInvalidJSON
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, http.StatusBadRequest, MsgInvalidJSON
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, http.StatusBadRequest, MsgNotAnObject
	}
	return obj, 0, ""
}

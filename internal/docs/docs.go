// Package docs renders the API route table as an OpenAPI 3 document and
// serves it, together with a Swagger UI page, under /doc.
package docs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/aanand-mishra/zoo-api/internal/http/router"
	"github.com/aanand-mishra/zoo-api/internal/validation"
)

// Info describes the API in the generated document.
type Info struct {
	Title       string
	Version     string
	Description string
}

// DefaultInfo is used by the server and the openapi command.
var DefaultInfo = Info{
	Title:       "Zoo API",
	Version:     "1.0.0",
	Description: "CRUD API for the users, zookeepers, habitats and animals of a zoo.",
}

const messageSchema = "Message"

// Build returns the OpenAPI document describing routes.
func Build(routes []router.Route, info Info) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				messageSchema: openapi3.NewObjectSchema().
					WithProperty("message", openapi3.NewStringSchema()).
					NewRef(),
			},
		},
	}

	for _, rt := range routes {
		if rt.Schema != nil {
			doc.Components.Schemas[rt.Resource] = recordSchema(rt.Schema).NewRef()
			doc.Components.Schemas[rt.Resource+"Input"] = inputSchema(rt.Schema).NewRef()
		}
	}

	for _, rt := range routes {
		path := doc.Paths.Value(rt.Pattern)
		if path == nil {
			path = &openapi3.PathItem{}
			doc.Paths.Set(rt.Pattern, path)
		}
		path.SetOperation(rt.Method, operation(doc, rt))
	}

	return doc
}

func ref(doc *openapi3.T, name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, doc.Components.Schemas[name].Value)
}

func jsonResponse(description string, schema *openapi3.SchemaRef) *openapi3.Response {
	return openapi3.NewResponse().WithDescription(description).WithJSONSchemaRef(schema)
}

func operation(doc *openapi3.T, rt router.Route) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = rt.Operation + rt.Resource
	op.Summary = rt.Summary
	op.Tags = []string{rt.Plural}
	op.Responses = openapi3.NewResponsesWithCapacity(4)

	record := func() *openapi3.SchemaRef {
		s := doc.Components.Schemas[rt.Resource]
		if s == nil {
			return openapi3.NewObjectSchema().NewRef()
		}
		return ref(doc, rt.Resource)
	}
	message := ref(doc, messageSchema)
	notFound := jsonResponse(rt.Resource+" not found", message)

	if strings.Contains(rt.Pattern, "{id}") {
		op.AddParameter(openapi3.NewPathParameter("id").
			WithDescription(rt.Resource+" identifier").
			WithSchema(openapi3.NewStringSchema()))
	}

	if rt.HasBody() {
		op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(ref(doc, rt.Resource+"Input"))}
		op.AddResponse(http.StatusBadRequest, jsonResponse("Invalid payload", message))
	}

	switch rt.Operation {
	case router.OpList:
		list := openapi3.NewArraySchema()
		list.Items = record()
		op.AddResponse(http.StatusOK, jsonResponse("All "+rt.Plural+" in creation order", list.NewRef()))
	case router.OpGet:
		op.AddResponse(http.StatusOK, jsonResponse("The "+strings.ToLower(rt.Resource), record()))
		op.AddResponse(http.StatusNotFound, notFound)
	case router.OpCreate:
		op.AddResponse(http.StatusCreated, jsonResponse("The stored "+strings.ToLower(rt.Resource), record()))
		op.AddResponse(http.StatusConflict, jsonResponse("Identifier already taken", message))
	case router.OpUpdate:
		op.AddResponse(http.StatusOK, jsonResponse("The updated "+strings.ToLower(rt.Resource), record()))
		op.AddResponse(http.StatusNotFound, notFound)
	case router.OpDelete:
		op.AddResponse(http.StatusNoContent, openapi3.NewResponse().WithDescription("Deleted"))
		op.AddResponse(http.StatusNotFound, notFound)
	}
	op.AddResponse(http.StatusInternalServerError, jsonResponse("Storage failure", message))

	return op
}

func fieldSchema(f validation.Field) *openapi3.Schema {
	switch f.Kind {
	case validation.Email:
		return openapi3.NewStringSchema().WithFormat("email")
	case validation.Enum:
		values := make([]any, len(f.Values))
		for i, v := range f.Values {
			values[i] = v
		}
		return openapi3.NewStringSchema().WithEnum(values...)
	case validation.Integer:
		return openapi3.NewIntegerSchema().WithMin(float64(f.Min))
	default:
		return openapi3.NewStringSchema().WithMinLength(1)
	}
}

func recordSchema(s *validation.Schema) *openapi3.Schema {
	schema := openapi3.NewObjectSchema().WithProperty("id", openapi3.NewStringSchema())
	schema.Required = []string{"id"}
	for _, f := range s.Fields {
		schema.WithProperty(f.Key, fieldSchema(f))
		schema.Required = append(schema.Required, f.Key)
	}
	return schema
}

func inputSchema(s *validation.Schema) *openapi3.Schema {
	idSchema := openapi3.NewStringSchema()
	idSchema.Description = "Optional identifier to store the record under"

	schema := openapi3.NewObjectSchema().WithProperty("id", idSchema)
	schema.Required = s.Keys()
	for _, f := range s.Fields {
		schema.WithProperty(f.Key, fieldSchema(f))
	}
	return schema
}

// JSON renders doc as indented JSON.
func JSON(doc *openapi3.T) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("docs.JSON: %w", err)
	}
	return out, nil
}

// YAML renders doc as YAML.
func YAML(doc *openapi3.T) ([]byte, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("docs.YAML: %w", err)
	}
	return out, nil
}

// Handlers serving a pre-rendered document.
type Handlers struct {
	json []byte
	yaml []byte
}

// NewHandlers renders doc once.
func NewHandlers(doc *openapi3.T) (*Handlers, error) {
	j, err := JSON(doc)
	if err != nil {
		return nil, err
	}
	y, err := YAML(doc)
	if err != nil {
		return nil, err
	}
	return &Handlers{json: j, yaml: y}, nil
}

func (h *Handlers) ServeJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(h.json)
}

func (h *Handlers) ServeYAML(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(h.yaml)
}

func (h *Handlers) ServeUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(uiPage))
}

// Mount registers /doc, /doc/openapi.json and /doc/openapi.yaml.
func (h *Handlers) Mount(r chi.Router) {
	r.Get("/doc", h.ServeUI)
	r.Get("/doc/openapi.json", h.ServeJSON)
	r.Get("/doc/openapi.yaml", h.ServeYAML)
}

const uiPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Zoo API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({ url: "/doc/openapi.json", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`

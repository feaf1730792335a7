package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/zoo-api/internal/config"
	"github.com/aanand-mishra/zoo-api/internal/logger"
)

type client struct {
	t   *testing.T
	srv *httptest.Server
}

func newClient(t *testing.T, stores *Stores) *client {
	t.Helper()
	h, err := NewHandler(Routes(stores, logger.Nop()), config.CORS{}, logger.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &client{t: t, srv: srv}
}

func (c *client) do(method, path, body string) (int, []byte) {
	c.t.Helper()
	req, err := http.NewRequest(method, c.srv.URL+path, strings.NewReader(body))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.srv.Client().Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	return res.StatusCode, raw
}

func (c *client) object(method, path, body string) (int, map[string]any) {
	c.t.Helper()
	status, raw := c.do(method, path, body)
	var out map[string]any
	require.NoError(c.t, json.Unmarshal(raw, &out), string(raw))
	return status, out
}

func memoryClient(t *testing.T, scheme string) *client {
	t.Helper()
	ids, err := NewIDs(scheme)
	require.NoError(t, err)
	return newClient(t, MemoryStores(ids))
}

func TestScenario_CreateAnimal(t *testing.T) {
	c := memoryClient(t, config.IDSchemeUUID)

	status, body := c.object(http.MethodPost, "/api/animals",
		`{"name":"Maya","species":"Jirafa","age":9,"gender":"Hembra"}`)

	assert.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "Maya", body["name"])
	assert.Equal(t, "Jirafa", body["species"])
	assert.Equal(t, float64(9), body["age"])
	assert.Equal(t, "Hembra", body["gender"])
}

func TestScenario_MissingFields(t *testing.T) {
	c := memoryClient(t, config.IDSchemeUUID)

	status, body := c.object(http.MethodPost, "/api/animals", `{"age":3,"species":"Elefante"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, map[string]any{"message": "Name, species, age and gender are required"}, body)
}

func TestScenario_AnimalNotFound(t *testing.T) {
	c := memoryClient(t, config.IDSchemeUUID)

	status, body := c.object(http.MethodGet, "/api/animals/1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, map[string]any{"message": "Animal not found"}, body)
}

func TestScenario_FractionalCapacity(t *testing.T) {
	c := memoryClient(t, config.IDSchemeUUID)

	_, created := c.object(http.MethodPost, "/api/habitats",
		`{"name":"Sabana","type":"Pradera","capacity":10,"location":"Norte"}`)
	path := "/api/habitats/" + created["id"].(string)

	status, body := c.object(http.MethodPut, path,
		`{"name":"Forest","type":"Woodland","capacity":10.5,"location":"East Zone"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, map[string]any{"message": "Capacity must be a whole number"}, body)
}

func TestScenario_DeleteTwice(t *testing.T) {
	c := memoryClient(t, config.IDSchemeUUID)

	_, created := c.object(http.MethodPost, "/api/users", `{"name":"Ana","email":"ana@example.com"}`)
	path := "/api/users/" + created["id"].(string)

	status, raw := c.do(http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, raw)

	status, body := c.object(http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, map[string]any{"message": "User not found"}, body)
}

func TestScenario_UnknownRoute(t *testing.T) {
	c := memoryClient(t, config.IDSchemeUUID)

	status, body := c.object(http.MethodGet, "/unknown-path", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, map[string]any{"message": "Route not found"}, body)
}

func TestListPreservesOrderAndSequenceIDs(t *testing.T) {
	c := memoryClient(t, config.IDSchemeSequence)

	for _, name := range []string{"Ana", "Luis", "Marta"} {
		status, _ := c.object(http.MethodPost, "/api/zookeepers",
			`{"name":"`+name+`","email":"`+strings.ToLower(name)+`@zoo.com","specialization":"Aves","yearsOfExperience":0}`)
		require.Equal(t, http.StatusCreated, status)
	}

	status, _ := c.do(http.MethodDelete, "/api/zookeepers/2", "")
	require.Equal(t, http.StatusNoContent, status)

	status, raw := c.do(http.MethodGet, "/api/zookeepers/", "")
	require.Equal(t, http.StatusOK, status)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0]["id"])
	assert.Equal(t, "Ana", list[0]["name"])
	assert.Equal(t, "3", list[1]["id"])
	assert.Equal(t, "Marta", list[1]["name"])
}

func TestResourcesHaveIndependentSequences(t *testing.T) {
	c := memoryClient(t, config.IDSchemeSequence)

	_, user := c.object(http.MethodPost, "/api/users", `{"name":"Ana","email":"ana@example.com"}`)
	_, animal := c.object(http.MethodPost, "/api/animals", `{"name":"Rex","species":"Perro","age":3,"gender":"Macho"}`)
	assert.Equal(t, "1", user["id"])
	assert.Equal(t, "1", animal["id"])
}

func TestCreate_SequenceSkipsCallerSuppliedID(t *testing.T) {
	c := memoryClient(t, config.IDSchemeSequence)

	status, _ := c.object(http.MethodPost, "/api/users", `{"id":"1","name":"Ana","email":"ana@zoo.com"}`)
	require.Equal(t, http.StatusCreated, status)

	status, body := c.object(http.MethodPost, "/api/users", `{"name":"Luis","email":"luis@zoo.com"}`)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "2", body["id"])
}

func TestHealthzAndDocs(t *testing.T) {
	c := memoryClient(t, config.IDSchemeUUID)

	status, body := c.object(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"status": "ok"}, body)

	status, doc := c.object(http.MethodGet, "/doc/openapi.json", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, doc["paths"], "/api/zookeepers/{id}")

	status, raw := c.do(http.MethodGet, "/doc", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "swagger-ui")
}

func TestCORSHeaders(t *testing.T) {
	c := memoryClient(t, config.IDSchemeUUID)

	req, err := http.NewRequest(http.MethodOptions, c.srv.URL+"/api/animals", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://zoo.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	res, err := c.srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodPost, res.Header.Get("Access-Control-Allow-Methods"))
}

func TestNew_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Env:        "dev",
		IDScheme:   config.IDSchemeUUID,
		HTTPServer: config.HTTPServer{Addr: "localhost:0"},
		Storage: config.Storage{
			Backend: config.BackendSQLite,
			SQLite:  config.SQLite{Path: filepath.Join(t.TempDir(), "data", "zoo.db")},
		},
	}

	a, err := New(ctx, cfg, logger.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(a.Server.Handler)
	defer srv.Close()
	c := &client{t: t, srv: srv}

	status, created := c.object(http.MethodPost, "/api/habitats",
		`{"name":"Bosque","type":"Templado","capacity":4,"location":"Este"}`)
	require.Equal(t, http.StatusCreated, status)

	status, got := c.object(http.MethodGet, "/api/habitats/"+created["id"].(string), "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, created, got)

	require.NoError(t, a.Stores.Close(ctx))
}

func TestNewIDs_UnknownScheme(t *testing.T) {
	_, err := NewIDs("ulid")
	assert.Error(t, err)
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lista-app/lista/internal/application/auth"
	"github.com/lista-app/lista/internal/application/catalog"
	"github.com/lista-app/lista/internal/application/list"
	"github.com/lista-app/lista/internal/clock"
	"github.com/lista-app/lista/internal/domain"
	"github.com/lista-app/lista/internal/idgen"
	"github.com/lista-app/lista/internal/infrastructure/http/middleware"
	"github.com/lista-app/lista/internal/infrastructure/persistence/memory"
)

// stubProvider serves a fixed product set without a network.
type stubProvider struct{}

func (stubProvider) GetProduct(_ context.Context, productID string) (*domain.ProductSnapshot, error) {
	if productID != "4240" {
		return nil, domain.ErrProductNotFound
	}
	price := 4.55
	return &domain.ProductSnapshot{
		ID:     "4240",
		Source: domain.CatalogSourceMercadona,
		Name:   "Olive oil",
		Price:  &price,
	}, nil
}

func (stubProvider) SearchProducts(_ context.Context, query string, _ int) ([]domain.ProductSnapshot, error) {
	if query == "oil" {
		return []domain.ProductSnapshot{{ID: "4240", Source: domain.CatalogSourceMercadona, Name: "Olive oil"}}, nil
	}
	return nil, nil
}

type testAPI struct {
	router http.Handler
	clock  *clock.Fake
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memory.NewStore()
	fakeClock := clock.NewFake(time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC))
	ids := &idgen.Sequential{Prefix: "id"}
	provider := stubProvider{}

	authService := auth.NewService(store, ids, fakeClock, auth.Config{SigningKey: "test-signing-key"})
	h := New(
		list.NewService(store, provider, ids, fakeClock),
		authService,
		catalog.NewService(provider),
	)

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		h.PublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuth(authService).Validate)
			h.Routes(r)
		})
	})

	return &testAPI{router: router, clock: fakeClock}
}

// do sends a JSON request and decodes the JSON response into out (when
// non-nil), returning the status code.
func (a *testAPI) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out), "body: %s", rec.Body.String())
	}
	return rec.Code
}

// signup registers a user and returns a session token.
func (a *testAPI) signup(t *testing.T, email string) string {
	t.Helper()

	status := a.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": email, "password": "correct horse", "name": "Test",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var login struct {
		Token string `json:"token"`
	}
	status = a.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": email, "password": "correct horse",
	}, &login)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, login.Token)
	return login.Token
}

type errorEnvelope struct {
	Error struct {
		Code    string           `json:"code"`
		Message string           `json:"message"`
		Details []map[string]any `json:"details"`
	} `json:"error"`
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup(t, "ana@example.com")

	var me struct {
		Email string `json:"email"`
	}
	status := api.do(t, http.MethodGet, "/v1/auth/me", token, nil, &me)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ana@example.com", me.Email)
}

func TestAuth_MissingToken(t *testing.T) {
	api := newTestAPI(t)

	var envelope errorEnvelope
	status := api.do(t, http.MethodGet, "/v1/lists", "", nil, &envelope)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "ana@example.com")

	var envelope errorEnvelope
	status := api.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "ana@example.com", "password": "correct horse",
	}, &envelope)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EMAIL_TAKEN", envelope.Error.Code)
}

func TestListLifecycle(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup(t, "ana@example.com")

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	status := api.do(t, http.MethodPost, "/v1/lists", token, map[string]string{"title": "Weekly shop"}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "DRAFT", created.Status)

	var item struct {
		ID string `json:"id"`
	}
	status = api.do(t, http.MethodPost, "/v1/lists/"+created.ID+"/items", token, map[string]any{"name": "Milk"}, &item)
	require.Equal(t, http.StatusCreated, status)

	var catalogItem struct {
		ID    string   `json:"id"`
		Name  string   `json:"name"`
		Price *float64 `json:"price"`
	}
	status = api.do(t, http.MethodPost, "/v1/lists/"+created.ID+"/items/catalog", token, map[string]any{"productId": "4240"}, &catalogItem)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Olive oil", catalogItem.Name)
	require.NotNil(t, catalogItem.Price)

	var activated struct {
		Status      string  `json:"status"`
		ActivatedAt *string `json:"activatedAt"`
	}
	status = api.do(t, http.MethodPatch, "/v1/lists/"+created.ID+"/status", token, map[string]string{"status": "ACTIVE"}, &activated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ACTIVE", activated.Status)
	assert.NotNil(t, activated.ActivatedAt)

	var completed struct {
		Status string `json:"status"`
		Items  []struct {
			ID      string `json:"id"`
			Checked bool   `json:"checked"`
		} `json:"items"`
	}
	status = api.do(t, http.MethodPost, "/v1/lists/"+created.ID+"/complete", token, map[string]any{
		"checkedItemIds": []string{item.ID},
	}, &completed)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "COMPLETED", completed.Status)
	require.Len(t, completed.Items, 2)
	assert.True(t, completed.Items[0].Checked)
	assert.False(t, completed.Items[1].Checked)
}

func TestCreateList_ShortTitle(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup(t, "ana@example.com")

	var envelope errorEnvelope
	status := api.do(t, http.MethodPost, "/v1/lists", token, map[string]string{"title": "ab"}, &envelope)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestUpdateListStatus_IllegalTransition(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup(t, "ana@example.com")

	var created struct {
		ID string `json:"id"`
	}
	status := api.do(t, http.MethodPost, "/v1/lists", token, map[string]string{"title": "Weekly shop"}, &created)
	require.Equal(t, http.StatusCreated, status)

	var envelope errorEnvelope
	status = api.do(t, http.MethodPatch, "/v1/lists/"+created.ID+"/status", token, map[string]string{"status": "COMPLETED"}, &envelope)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "LIST_STATUS_INVALID", envelope.Error.Code)
}

func TestGetList_OtherOwnerForbidden(t *testing.T) {
	api := newTestAPI(t)
	owner := api.signup(t, "ana@example.com")
	other := api.signup(t, "bo@example.com")

	var created struct {
		ID string `json:"id"`
	}
	status := api.do(t, http.MethodPost, "/v1/lists", owner, map[string]string{"title": "Weekly shop"}, &created)
	require.Equal(t, http.StatusCreated, status)

	var envelope errorEnvelope
	status = api.do(t, http.MethodGet, "/v1/lists/"+created.ID, other, nil, &envelope)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", envelope.Error.Code)

	status = api.do(t, http.MethodGet, "/v1/lists/no-such-list", other, nil, &envelope)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestAutosave_ConflictCarriesRemoteVersion(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup(t, "ana@example.com")

	var first struct {
		UpdatedAt string `json:"updatedAt"`
	}
	status := api.do(t, http.MethodPut, "/v1/autosave", token, map[string]any{"title": "v1"}, &first)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, first.UpdatedAt)

	// A second write claiming no draft exists is stale.
	api.clock.Advance(time.Second)
	var envelope errorEnvelope
	status = api.do(t, http.MethodPut, "/v1/autosave", token, map[string]any{"title": "v2"}, &envelope)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "AUTOSAVE_CONFLICT", envelope.Error.Code)
	require.NotEmpty(t, envelope.Error.Details)
	assert.Equal(t, first.UpdatedAt, envelope.Error.Details[0]["remoteUpdatedAt"])

	// Retrying with the advertised version succeeds.
	api.clock.Advance(time.Second)
	var second struct {
		UpdatedAt string `json:"updatedAt"`
	}
	status = api.do(t, http.MethodPut, "/v1/autosave", token, map[string]any{
		"title":         "v2",
		"baseUpdatedAt": first.UpdatedAt,
	}, &second)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEqual(t, first.UpdatedAt, second.UpdatedAt)
}

func TestAutosave_GetAndDiscard(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup(t, "ana@example.com")

	var empty struct {
		Draft *json.RawMessage `json:"draft"`
	}
	status := api.do(t, http.MethodGet, "/v1/autosave", token, nil, &empty)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, empty.Draft)

	status = api.do(t, http.MethodPut, "/v1/autosave", token, map[string]any{
		"title": "groceries",
		"items": []map[string]any{{"kind": "catalog", "name": "Olive oil", "sourceProductId": "4240"}},
	}, nil)
	require.Equal(t, http.StatusOK, status)

	var got struct {
		Draft *struct {
			ID    string `json:"id"`
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		} `json:"draft"`
	}
	status = api.do(t, http.MethodGet, "/v1/autosave", token, nil, &got)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, got.Draft)
	require.Len(t, got.Draft.Items, 1)
	assert.Equal(t, fmt.Sprintf("%s:4240", got.Draft.ID), got.Draft.Items[0].ID)

	var discarded struct {
		Removed int `json:"removed"`
	}
	status = api.do(t, http.MethodDelete, "/v1/autosave", token, nil, &discarded)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, discarded.Removed)
}

func TestCatalogSearch(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup(t, "ana@example.com")

	var results struct {
		Products []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"products"`
	}
	status := api.do(t, http.MethodGet, "/v1/catalog/search?q=oil", token, nil, &results)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, results.Products, 1)
	assert.Equal(t, "Olive oil", results.Products[0].Name)

	var envelope errorEnvelope
	status = api.do(t, http.MethodGet, "/v1/catalog/search", token, nil, &envelope)
	assert.Equal(t, http.StatusBadRequest, status)

	status = api.do(t, http.MethodGet, "/v1/catalog/products/999", token, nil, &envelope)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

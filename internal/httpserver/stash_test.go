package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stash-backend/internal/domain"
)

type stashBody struct {
	Items       []domain.CartItem `json:"items"`
	TotalCount  int               `json:"totalCount"`
	TotalAmount float64           `json:"totalAmount"`
	Currency    string            `json:"currency"`
}

func decodeStash(t *testing.T, rec *httptest.ResponseRecorder) stashBody {
	t.Helper()
	var body stashBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode stash body: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestGetStash_MintsSessionForAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, testDeps())
	if err != nil {
		t.Fatalf("build router: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/stash", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	session := rec.Header().Get(stashSessionHeader)
	if _, err := uuid.Parse(session); err != nil {
		t.Fatalf("expected a minted session id, got %q", session)
	}
	body := decodeStash(t, rec)
	if body.TotalCount != 0 || body.Currency != "AED" {
		t.Fatalf("unexpected empty stash %+v", body)
	}
}

func TestStash_AddUpdateRemoveRoundtrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, testDeps())
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	session := uuid.NewString()

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set(stashSessionHeader, session)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/stash/items", `{"item":{"id":"p1","title":"Cloud Stickers","price":12.5},"quantity":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeStash(t, rec)
	if body.TotalCount != 2 || body.TotalAmount != 25 {
		t.Fatalf("unexpected stash after add: %+v", body)
	}

	// Same id merges instead of duplicating.
	rec = do(http.MethodPost, "/stash/items", `{"item":{"id":"p1","title":"Cloud Stickers","price":12.5}}`)
	body = decodeStash(t, rec)
	if len(body.Items) != 1 || body.TotalCount != 3 {
		t.Fatalf("expected merged line with count 3, got %+v", body)
	}

	rec = do(http.MethodPatch, "/stash/items/p1", `{"quantity":5}`)
	body = decodeStash(t, rec)
	if body.TotalCount != 5 {
		t.Fatalf("expected count 5 after update, got %+v", body)
	}

	rec = do(http.MethodDelete, "/stash/items/p1", "")
	body = decodeStash(t, rec)
	if len(body.Items) != 0 {
		t.Fatalf("expected empty stash after remove, got %+v", body)
	}
}

func TestStash_PersistsAcrossRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, testDeps())
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	session := uuid.NewString()

	req := httptest.NewRequest(http.MethodPost, "/stash/items", strings.NewReader(`{"item":{"id":"p1","title":"Washi Tape","priceText":"AED 35"},"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(stashSessionHeader, session)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/stash", nil)
	req.Header.Set(stashSessionHeader, session)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := decodeStash(t, rec)
	if body.TotalCount != 1 || body.TotalAmount != 35 || body.Currency != "AED" {
		t.Fatalf("unexpected reloaded stash %+v", body)
	}
}

func TestStash_SessionsAreIsolated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, testDeps())
	if err != nil {
		t.Fatalf("build router: %v", err)
	}

	first := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/stash/items", strings.NewReader(`{"item":{"id":"p1","title":"Notebook"},"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(stashSessionHeader, first)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	req = httptest.NewRequest(http.MethodGet, "/stash", nil)
	req.Header.Set(stashSessionHeader, uuid.NewString())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := decodeStash(t, rec)
	if len(body.Items) != 0 {
		t.Fatalf("expected isolated empty stash, got %+v", body)
	}
}

func TestStash_AuthenticatedUsesAccountSlot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := testDeps()
	deps.CustomerSvc = &stubCustomerSvc{
		customer: &domain.Customer{ID: "cust-1", Email: "user@example.com"},
	}
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/stash/items", strings.NewReader(`{"item":{"id":"p1","title":"Notebook"},"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	// Same account, no session header: the stash follows the token.
	req = httptest.NewRequest(http.MethodGet, "/stash", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := decodeStash(t, rec)
	if body.TotalCount != 1 {
		t.Fatalf("expected account-bound stash, got %+v", body)
	}
}

func TestAddStashItem_RejectsMissingID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, testDeps())
	if err != nil {
		t.Fatalf("build router: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/stash/items", strings.NewReader(`{"item":{"title":"No ID"},"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestClearStash(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, testDeps())
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	session := uuid.NewString()

	req := httptest.NewRequest(http.MethodPost, "/stash/items", strings.NewReader(`{"item":{"id":"p1","title":"Notebook"},"quantity":3}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(stashSessionHeader, session)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	req = httptest.NewRequest(http.MethodDelete, "/stash", nil)
	req.Header.Set(stashSessionHeader, session)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := decodeStash(t, rec)
	if len(body.Items) != 0 || body.TotalCount != 0 {
		t.Fatalf("expected cleared stash, got %+v", body)
	}
}

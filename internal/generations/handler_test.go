package generations

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"cameo-backend/internal/shared/server/middleware"
	"cameo-backend/internal/usage"
	"cameo-backend/internal/videogen"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Auth("dev"))
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doJSON(router *gin.Engine, method, path, guest string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", guest)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHandlerCreateThenPoll(t *testing.T) {
	svc, _ := newSyncService(&fakeVideo{res: videogen.Result{VideoURI: "https://videos.example/a.mp4"}})
	router := newTestRouter(svc)

	resp := doJSON(router, http.MethodPost, "/api/v1/generations", "g1", map[string]any{"prompt": "a cat surfing at the beach"})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}
	var created Generation
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Status != StatusQueued || created.Analysis == nil {
		t.Fatalf("unexpected create payload: %s", resp.Body.String())
	}

	resp = doJSON(router, http.MethodGet, "/api/v1/generations/"+created.ID, "g1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var polled Generation
	if err := json.Unmarshal(resp.Body.Bytes(), &polled); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if polled.Status != StatusCompleted || polled.VideoURI != "https://videos.example/a.mp4" {
		t.Fatalf("unexpected poll payload: %s", resp.Body.String())
	}

	resp = doJSON(router, http.MethodGet, "/api/v1/generations/"+created.ID, "g2", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other guest, got %d", resp.Code)
	}
}

func TestHandlerCreateErrors(t *testing.T) {
	svc, _ := newSyncService(&fakeVideo{})
	svc.Usage = usage.NewService(usage.Policy{Limit: 1})
	router := newTestRouter(svc)

	resp := doJSON(router, http.MethodPost, "/api/v1/generations", "g1", map[string]any{"prompt": ""})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	resp = doJSON(router, http.MethodPost, "/api/v1/generations", "g1", map[string]any{"prompt": "one"})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	resp = doJSON(router, http.MethodPost, "/api/v1/generations", "g1", map[string]any{"prompt": "two"})
	if resp.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestHandlerListPaging(t *testing.T) {
	svc, _ := newSyncService(&fakeVideo{})
	router := newTestRouter(svc)
	for i := 0; i < 3; i++ {
		if _, err := svc.Create(t.Context(), "guest:g1", CreateInput{Prompt: "x"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	resp := doJSON(router, http.MethodGet, "/api/v1/generations?limit=2", "g1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var payload struct {
		Items []Generation `json:"items"`
		Limit int          `json:"limit"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Items) != 2 || payload.Limit != 2 {
		t.Fatalf("unexpected page: %+v", payload)
	}
}

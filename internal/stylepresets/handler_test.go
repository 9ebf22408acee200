package stylepresets

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"cameo-backend/internal/shared/server/middleware"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Auth("dev"))
	NewHandler(NewService(NewMemoryRepo())).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doRequest(router *gin.Engine, method, path, guestID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHandlerLifecycle(t *testing.T) {
	router := newTestRouter()

	resp := doRequest(router, http.MethodPost, "/api/v1/style-presets", "g1", map[string]any{
		"name":         "Neon",
		"promptSuffix": "neon lighting, synthwave palette",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created StylePreset
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.AspectRatio != DefaultAspectRatio || created.DurationSeconds != DefaultDurationSeconds {
		t.Fatalf("defaults not applied: %+v", created)
	}

	resp = doRequest(router, http.MethodGet, "/api/v1/style-presets/"+created.ID, "g2", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another owner, got %d", resp.Code)
	}

	resp = doRequest(router, http.MethodPut, "/api/v1/style-presets/"+created.ID, "g1", map[string]any{
		"name":        "Neon",
		"aspectRatio": "4:3",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported aspect ratio, got %d", resp.Code)
	}

	resp = doRequest(router, http.MethodDelete, "/api/v1/style-presets/"+created.ID, "g1", nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	resp = doRequest(router, http.MethodGet, "/api/v1/style-presets/"+created.ID, "g1", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestHandlerRejectsMalformedBody(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/style-presets", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "g1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

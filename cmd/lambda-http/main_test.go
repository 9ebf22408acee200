package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"

	"cameo-backend/internal/shared/server/respond"
)

func TestLazyProxyServesRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	builds := 0
	p := &lazyProxy{build: func() (*gin.Engine, error) {
		builds++
		r := gin.New()
		r.GET("/api/v1/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
		return r, nil
	}}

	req := events.APIGatewayV2HTTPRequest{
		RawPath: "/api/v1/health",
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: http.MethodGet, Path: "/api/v1/health"},
		},
	}
	for i := 0; i < 2; i++ {
		resp, err := p.handle(context.Background(), req)
		if err != nil {
			t.Fatalf("handle: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
	}
	if builds != 1 {
		t.Fatalf("expected one build, got %d", builds)
	}
}

func TestLazyProxyReportsBootstrapFailure(t *testing.T) {
	errBuild := errors.New("no database")
	p := &lazyProxy{build: func() (*gin.Engine, error) { return nil, errBuild }}

	resp, err := p.handle(context.Background(), events.APIGatewayV2HTTPRequest{})
	if !errors.Is(err, errBuild) {
		t.Fatalf("expected build error, got %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	var body respond.ErrorResponse
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "internal_error" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
}

package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http
//
// API Gateway HTTP API (payload v2) fronts the same Gin router as cmd/api.

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"cameo-backend/internal/bootstrap"
	"cameo-backend/internal/shared/config"
	"cameo-backend/internal/shared/server/respond"
	"cameo-backend/internal/shared/telemetry"
)

type proxyFunc func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// lazyProxy builds the router on the first invocation and reuses it for the
// lifetime of the execution environment.
type lazyProxy struct {
	once  sync.Once
	build func() (*gin.Engine, error)
	proxy proxyFunc
	err   error
}

func (l *lazyProxy) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	l.once.Do(func() {
		router, err := l.build()
		if err != nil {
			l.err = err
			return
		}
		l.proxy = ginadapter.NewV2(router).ProxyWithContext
	})
	if l.err != nil {
		telemetry.Error("lambda_http.bootstrap_failed", map[string]any{
			"error":      l.err.Error(),
			"request_id": req.RequestContext.RequestID,
		})
		return bootstrapFailure(), l.err
	}
	return l.proxy(ctx, req)
}

func bootstrapFailure() events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(respond.ErrorResponse{Error: respond.ErrorBody{
		Code:    "internal_error",
		Message: "service failed to start",
	}})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func buildRouter() (*gin.Engine, error) {
	app, err := bootstrap.Build(context.Background(), config.Load())
	if err != nil {
		return nil, err
	}
	return app.Router, nil
}

func main() {
	p := &lazyProxy{build: buildRouter}
	lambda.Start(p.handle)
}

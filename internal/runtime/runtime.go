// Package runtime adapts the webhook handler to the HTTP server and to AWS Lambda invocations.
package runtime

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/merchant-webhook/internal/handler"
	"github.com/isometry/merchant-webhook/internal/helpers"
	"github.com/isometry/merchant-webhook/internal/models"
)

// Supported lambda payload types.
const (
	PayloadAPIGatewayV1 = "api-gateway-v1"
	PayloadAPIGatewayV2 = "api-gateway-v2"
	PayloadLambdaURL    = "lambda-url"
)

// Option is a functional option of the Runtime.
type Option func(*Runtime)

// WithLogger sets the logger of the Runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// Runtime exposes a Handler to its callers.
type Runtime struct {
	*handler.Handler
	logger *slog.Logger
}

// NewRuntime creates a new runtime instance
func NewRuntime(handler *handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{Handler: handler}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// Lambda returns the lambda handler function matching the configured payload type.
func (r *Runtime) Lambda() (any, error) {
	switch payloadType := r.GetLambdaPayloadType(); payloadType {
	case PayloadAPIGatewayV1:
		return r.HandleAPIGatewayV1, nil
	case PayloadAPIGatewayV2, "":
		return r.HandleAPIGatewayV2, nil
	case PayloadLambdaURL:
		return r.HandleLambdaURL, nil
	default:
		return nil, fmt.Errorf("unsupported lambda payload type: %s", payloadType)
	}
}

// HandleAPIGatewayV1 handles API Gateway REST API proxy events.
func (r *Runtime) HandleAPIGatewayV1(_ context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	r.logger.Info("received API Gateway V1 request")
	resp := r.handle(req.Body, req.IsBase64Encoded, req.Headers)
	return events.APIGatewayProxyResponse{
		Body:       resp.Body,
		Headers:    resp.Headers,
		StatusCode: resp.StatusCode,
	}, nil
}

// HandleAPIGatewayV2 handles API Gateway HTTP API events.
func (r *Runtime) HandleAPIGatewayV2(_ context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	r.logger.Info("received API Gateway V2 request")
	resp := r.handle(req.Body, req.IsBase64Encoded, req.Headers)
	return events.APIGatewayV2HTTPResponse{
		Body:       resp.Body,
		Headers:    resp.Headers,
		StatusCode: resp.StatusCode,
	}, nil
}

// HandleLambdaURL handles Lambda function URL events.
func (r *Runtime) HandleLambdaURL(_ context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	r.logger.Info("received Lambda function URL request")
	resp := r.handle(req.Body, req.IsBase64Encoded, req.Headers)
	return events.LambdaFunctionURLResponse{
		Body:       resp.Body,
		Headers:    resp.Headers,
		StatusCode: resp.StatusCode,
	}, nil
}

// handle processes a lambda request. Rejections are reported through the status code,
// never as invocation errors.
func (r *Runtime) handle(body string, isBase64 bool, headers map[string]string) models.Response {
	req := models.Request{Body: body, Headers: normaliseHeaders(headers)}
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			r.logger.Warn("failed to decode base64 body", slog.Any("error", err))
			resp := models.Response{Body: http.StatusText(http.StatusBadRequest), StatusCode: http.StatusBadRequest}
			return lambdaResponse(resp, err)
		}
		req.Body = string(decoded)
	}

	result, err := r.Process([]byte(req.Body), req.Headers)
	return lambdaResponse(result.Response, err)
}

func lambdaResponse(resp models.Response, err error) models.Response {
	headers := map[string]string{"Content-Type": "application/json"}
	maps.Copy(headers, resp.Headers)
	return models.Response{
		Body:       helpers.ResponseBody(resp, err),
		Headers:    headers,
		StatusCode: resp.StatusCode,
	}
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodPost:
		break
	default:
		r.logger.Debug("rejecting HTTP request...", slog.Any("requestor", req.RemoteAddr), "reason", "method not allowed", slog.Any("method", req.Method))
		helpers.RespondHTTP(models.Response{
			Body:       http.StatusText(http.StatusMethodNotAllowed),
			Headers:    map[string]string{"Allow": http.MethodPost},
			StatusCode: http.StatusMethodNotAllowed,
		}, nil, resp)
		return
	}

	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("path", req.URL.Path))
	headers := make(map[string]string, len(req.Header))
	for k, v := range req.Header {
		headers[strings.ToLower(k)] = v[0]
	}

	// One byte past the limit lets the handler report the oversize body.
	limit := r.MaxBodySize()
	if limit < math.MaxInt64 {
		limit++
	}
	body, err := io.ReadAll(io.LimitReader(req.Body, limit))
	if err != nil {
		r.logger.Error("failed to read request body", slog.Any("error", err))
		helpers.RespondHTTP(models.Response{
			Body:       http.StatusText(http.StatusBadRequest),
			StatusCode: http.StatusBadRequest,
		}, err, resp)
		return
	}
	result, err := r.Process(body, headers)
	helpers.RespondHTTP(result.Response, err, resp)
}

func normaliseHeaders(headers map[string]string) map[string]string {
	lch := make(map[string]string, len(headers))
	for k, v := range headers {
		lch[strings.ToLower(k)] = v
	}
	return lch
}

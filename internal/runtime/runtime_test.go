package runtime_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/merchant-webhook/internal/handler"
	"github.com/isometry/merchant-webhook/internal/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "supersecret"
	// HMAC-SHA512("supersecret", `{"orderId":"123"}`)
	orderSignature = "4960a2e92716e0aa311b177718e43940cfab37f3320eae804347da3111c01028d29faabd176582c290b3b9e4e54d91c43fa0ade365fbe97c0fd1787fd3dc7da0"
	validBody      = `{"event":"order.new","data":{"orderId":"123"},"signature":"` + orderSignature + `"}`
	tamperedBody   = `{"event":"order.new","data":{"orderId":"999"},"signature":"` + orderSignature + `"}`
)

func newRuntime(t *testing.T, opts ...handler.Option) *runtime.Runtime {
	t.Helper()
	opts = append([]handler.Option{handler.WithWebhookSecret(testSecret)}, opts...)
	hdl, err := handler.NewHandler(opts...)
	require.NoError(t, err)
	return runtime.NewRuntime(hdl)
}

func TestRuntime_ServeHTTP(t *testing.T) {
	testCases := []struct {
		Name           string
		Method         string
		Body           string
		ContentType    string
		Options        []handler.Option
		ExpectedStatus int
		ExpectedBody   string
	}{
		{
			Name:           "valid_delivery",
			Method:         http.MethodPost,
			Body:           validBody,
			ContentType:    "application/json",
			ExpectedStatus: http.StatusAccepted,
			ExpectedBody:   `{"message":"accepted order.new delivery"}`,
		},
		{
			Name:           "tampered_delivery",
			Method:         http.MethodPost,
			Body:           tamperedBody,
			ContentType:    "application/json",
			ExpectedStatus: http.StatusForbidden,
			ExpectedBody:   `{"message":"Forbidden","error":"invalid webhook signature"}`,
		},
		{
			Name:           "method_not_allowed",
			Method:         http.MethodGet,
			ExpectedStatus: http.StatusMethodNotAllowed,
			ExpectedBody:   `{"message":"Method Not Allowed"}`,
		},
		{
			Name:           "oversized_body",
			Method:         http.MethodPost,
			Body:           validBody + strings.Repeat(" ", 64),
			Options:        []handler.Option{handler.WithMaxBodySize(int64(len(validBody)))},
			ExpectedStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			rt := newRuntime(t, tc.Options...)
			req := httptest.NewRequest(tc.Method, "/", strings.NewReader(tc.Body))
			if tc.ContentType != "" {
				req.Header.Set("Content-Type", tc.ContentType)
			}
			rr := httptest.NewRecorder()

			rt.ServeHTTP(rr, req)

			assert.Equal(t, tc.ExpectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			if tc.ExpectedBody != "" {
				assert.JSONEq(t, tc.ExpectedBody, rr.Body.String())
			}
			if tc.Method != http.MethodPost {
				assert.Equal(t, http.MethodPost, rr.Header().Get("Allow"))
			}
		})
	}
}

func TestRuntime_Lambda(t *testing.T) {
	testCases := []struct {
		Name        string
		PayloadType string
		ExpectError bool
	}{
		{
			Name:        "api_gateway_v1",
			PayloadType: runtime.PayloadAPIGatewayV1,
		},
		{
			Name:        "api_gateway_v2",
			PayloadType: runtime.PayloadAPIGatewayV2,
		},
		{
			Name: "default",
		},
		{
			Name:        "lambda_url",
			PayloadType: runtime.PayloadLambdaURL,
		},
		{
			Name:        "unsupported",
			PayloadType: "sqs",
			ExpectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			rt := newRuntime(t, handler.WithLambdaPayloadType(tc.PayloadType))
			fn, err := rt.Lambda()
			if tc.ExpectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			ctx := context.Background()
			switch h := fn.(type) {
			case func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error):
				resp, err := h(ctx, events.APIGatewayProxyRequest{Body: validBody})
				require.NoError(t, err)
				assert.Equal(t, http.StatusAccepted, resp.StatusCode)
			case func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error):
				resp, err := h(ctx, events.APIGatewayV2HTTPRequest{Body: validBody})
				require.NoError(t, err)
				assert.Equal(t, http.StatusAccepted, resp.StatusCode)
			case func(context.Context, events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error):
				resp, err := h(ctx, events.LambdaFunctionURLRequest{Body: validBody})
				require.NoError(t, err)
				assert.Equal(t, http.StatusAccepted, resp.StatusCode)
			default:
				t.Fatalf("unexpected handler type %T", fn)
			}
		})
	}
}

func TestRuntime_HandleAPIGatewayV2(t *testing.T) {
	testCases := []struct {
		Name           string
		Request        events.APIGatewayV2HTTPRequest
		ExpectedStatus int
	}{
		{
			Name: "plain_body",
			Request: events.APIGatewayV2HTTPRequest{
				Body:    validBody,
				Headers: map[string]string{"Content-Type": "application/json"},
			},
			ExpectedStatus: http.StatusAccepted,
		},
		{
			Name: "base64_body",
			Request: events.APIGatewayV2HTTPRequest{
				Body:            base64.StdEncoding.EncodeToString([]byte(validBody)),
				IsBase64Encoded: true,
			},
			ExpectedStatus: http.StatusAccepted,
		},
		{
			Name: "invalid_base64_body",
			Request: events.APIGatewayV2HTTPRequest{
				Body:            "not base64!",
				IsBase64Encoded: true,
			},
			ExpectedStatus: http.StatusBadRequest,
		},
		{
			Name: "mixed_case_content_type",
			Request: events.APIGatewayV2HTTPRequest{
				Body:    validBody,
				Headers: map[string]string{"CONTENT-TYPE": "text/xml"},
			},
			ExpectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			Name:           "tampered",
			Request:        events.APIGatewayV2HTTPRequest{Body: tamperedBody},
			ExpectedStatus: http.StatusForbidden,
		},
	}

	rt := newRuntime(t)
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			resp, err := rt.HandleAPIGatewayV2(context.Background(), tc.Request)
			require.NoError(t, err)
			assert.Equal(t, tc.ExpectedStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Headers["Content-Type"])
			assert.Contains(t, resp.Body, `"message"`)
		})
	}
}

func TestRuntime_HandleLambdaURL(t *testing.T) {
	rt := newRuntime(t)
	resp, err := rt.HandleLambdaURL(context.Background(), events.LambdaFunctionURLRequest{
		Body:            base64.StdEncoding.EncodeToString([]byte(tamperedBody)),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Forbidden","error":"invalid webhook signature"}`, resp.Body)
}

// Package helpers provides small utilities shared by the runtimes and commands.
package helpers

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/isometry/merchant-webhook/internal/models"
)

type httpResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// ResponseBody renders the JSON document returned to webhook senders.
func ResponseBody(response models.Response, err error) string {
	hR := httpResponse{
		Message: response.Body,
	}
	if err != nil {
		hR.Error = err.Error()
	}
	respBody, _ := json.Marshal(hR)
	return string(respBody)
}

// RespondHTTP writes the response with its headers and a JSON body. A zero status code means 200.
func RespondHTTP(response models.Response, err error, rw http.ResponseWriter) {
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	rw.Header().Set("Content-Type", "application/json")
	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write([]byte(ResponseBody(response, err)))
}

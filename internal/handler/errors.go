package handler

import (
	"github.com/isometry/merchant-webhook/internal/handler/processor"
)

// RequestError is a rejected delivery and the HTTP status returned to its sender.
type RequestError = processor.RequestError

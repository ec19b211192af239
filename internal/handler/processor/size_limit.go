package processor

import (
	"log/slog"
	"net/http"
)

type sizeLimitProcessor struct {
	maxBodySize int64
}

// NewSizeLimitProcessor rejects bodies larger than maxBodySize bytes.
func NewSizeLimitProcessor(maxBodySize int64) Processor {
	return &sizeLimitProcessor{maxBodySize: maxBodySize}
}

func (p *sizeLimitProcessor) Name() string {
	return "size-limit"
}

func (p *sizeLimitProcessor) Process(bus *Bus) error {
	size := int64(len(bus.Body))
	if size > p.maxBodySize {
		bus.Logger.Warn("request body too large", slog.Int64("size", size), slog.Int64("limit", p.maxBodySize))
		return NewRequestError(http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", p.maxBodySize)
	}
	if size == 0 {
		return NewRequestError(http.StatusBadRequest, "empty request body")
	}
	return nil
}

package processor

import (
	"log/slog"
	"net/http"

	"github.com/pkg/errors"
)

// Archiver stores verified deliveries.
type Archiver interface {
	PutS3Object(id string, bucket string, body []byte) (string, error)
}

type s3UploaderProcessor struct {
	archiver Archiver
	bucket   string
}

// NewS3UploaderProcessor archives each delivery into bucket. An empty bucket disables archiving.
func NewS3UploaderProcessor(archiver Archiver, bucket string) Processor {
	return &s3UploaderProcessor{archiver: archiver, bucket: bucket}
}

func (p *s3UploaderProcessor) Name() string {
	return "s3-uploader"
}

func (p *s3UploaderProcessor) Process(bus *Bus) error {
	if p.bucket == "" || p.archiver == nil {
		bus.Logger.Debug("s3 upload is disabled")
		return nil
	}
	if bus.Delivery == nil {
		return NewRequestError(http.StatusInternalServerError, "no decoded delivery to archive")
	}

	key, err := p.archiver.PutS3Object(bus.Delivery.Event.String(), p.bucket, bus.Body)
	if err != nil {
		bus.Logger.Warn("failed to store delivery in S3", slog.Any("error", err))
		return WrapRequestError(http.StatusInternalServerError, errors.Wrap(err, "failed to archive delivery"))
	}
	bus.Logger.Debug("stored delivery in S3", slog.String("key", key))
	bus.ArchiveKey = key
	return nil
}

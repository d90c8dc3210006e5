package storage

import (
	"context"
	"io"
)

// UploadResult описывает загруженный объект. Location пуст, если публичный URL не настроен.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader кладет объект в хранилище по ключу.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
}

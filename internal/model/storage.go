package model

import (
	"context"
	"io"
)

// Object describes an upload.
type Object struct {
	Key         string
	Size        int64
	ContentType string
	Body        io.Reader
}

// Storage keeps binary objects such as profile pictures.
type Storage interface {
	Upload(ctx context.Context, obj Object) error
	Delete(ctx context.Context, key string) error
}

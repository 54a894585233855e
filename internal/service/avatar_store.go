package service

import (
	"context"
	"io"
)

type AvatarStore interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (url string, err error)
}

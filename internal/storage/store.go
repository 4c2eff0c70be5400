// Package storage keeps uploaded resume files. The interview machine only
// holds the returned reference.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("storage: object not found")

type ResumeStore interface {
	Put(ctx context.Context, owner, name, contentType string, data []byte) (string, error)
	Get(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
}

// objectKey builds resumes/<owner>/<uuid>-<base name>.
func objectKey(owner, name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "resume"
	}
	return "resumes/" + owner + "/" + uuid.NewString() + "-" + base
}

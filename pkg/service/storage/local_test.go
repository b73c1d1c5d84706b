package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/service/storage"
)

func TestLocalPutAndResolve(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := storage.NewLocal(dir)
	gt.NoError(t, err).Required()

	ref, err := store.Put(ctx, "../../catalogo.pdf", strings.NewReader("%PDF-1.4"))
	gt.NoError(t, err).Required()
	gt.True(t, strings.HasSuffix(ref, "_catalogo.pdf"))
	gt.False(t, strings.Contains(ref, "/"))

	_, err = os.Stat(filepath.Join(dir, ref))
	gt.NoError(t, err)

	att, err := store.Resolve(ctx, ref)
	gt.NoError(t, err).Required()
	gt.Equal(t, att.Ref, ref)
	gt.Equal(t, att.Filename, "catalogo.pdf")
	gt.Equal(t, att.ContentType, "application/pdf")
	gt.Equal(t, string(att.Data), "%PDF-1.4")
}

func TestLocalResolveMissing(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.NewLocal(filepath.Join(dir, "uploads"))
	gt.NoError(t, err).Required()

	gt.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("secret"), 0o600))

	for _, ref := range []string{"nope.txt", "../secret.txt", filepath.Join(dir, "secret.txt")} {
		t.Run(ref, func(t *testing.T) {
			_, err := store.Resolve(ctx, ref)
			gt.Error(t, err)
			gt.True(t, errors.Is(err, model.ErrAttachmentNotFound))
		})
	}
}

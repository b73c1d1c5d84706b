package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
)

// Local stores attachments as files in one directory. References are file
// names relative to that directory and can never escape it.
type Local struct {
	dir string
}

var _ interfaces.AttachmentStore = (*Local)(nil)

// NewLocal creates the upload directory if needed
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, goerr.Wrap(err, "failed to create upload directory", goerr.V("dir", dir))
	}
	return &Local{dir: dir}, nil
}

// Put writes the upload as <uuid>_<filename> and returns that name
func (l *Local) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := uuid.NewString() + "_" + sanitizeFilename(filename)

	root, err := os.OpenRoot(l.dir)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open upload directory", goerr.V("dir", l.dir))
	}
	defer root.Close()

	f, err := root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create upload file", goerr.V("name", name))
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = root.Remove(name)
		return "", goerr.Wrap(err, "failed to write upload file", goerr.V("name", name))
	}
	if err := f.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to close upload file", goerr.V("name", name))
	}

	ctxlog.From(ctx).Debug("Stored upload", "dir", l.dir, "name", name)
	return name, nil
}

// Resolve reads an uploaded file by reference
func (l *Local) Resolve(ctx context.Context, ref string) (*model.Attachment, error) {
	root, err := os.OpenRoot(l.dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open upload directory", goerr.V("dir", l.dir))
	}
	defer root.Close()

	f, err := root.Open(ref)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(model.ErrAttachmentNotFound, "attachment file does not exist", goerr.V("ref", ref))
		}
		// Paths escaping the directory are reported as missing too
		return nil, goerr.Wrap(model.ErrAttachmentNotFound, "attachment file is not readable",
			goerr.V("ref", ref),
			goerr.V("cause", err.Error()))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read attachment", goerr.V("ref", ref))
	}

	filename := displayName(ref)
	return &model.Attachment{
		Ref:         ref,
		Filename:    filename,
		ContentType: detectContentType(filename, data),
		Data:        data,
	}, nil
}

// displayName strips the uuid prefix Put adds
func displayName(ref string) string {
	name := sanitizeFilename(ref)
	if prefix, rest, ok := strings.Cut(name, "_"); ok && rest != "" {
		if _, err := uuid.Parse(prefix); err == nil {
			return rest
		}
	}
	return name
}

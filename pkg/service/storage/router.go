package storage

import (
	"context"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
)

// Router picks a backend by the scheme of a reference. Uploads go to the
// primary store; references without a scheme belong to the fallback.
type Router struct {
	primary  interfaces.AttachmentStore
	fallback interfaces.AttachmentStore
	schemes  map[string]interfaces.AttachmentStore
}

var _ interfaces.AttachmentStore = (*Router)(nil)

// RouterOption configures a Router
type RouterOption func(*Router)

// WithScheme registers a backend for scheme:// references
func WithScheme(scheme string, store interfaces.AttachmentStore) RouterOption {
	return func(r *Router) {
		r.schemes[scheme] = store
	}
}

// WithPrimary sends uploads to store instead of the fallback
func WithPrimary(store interfaces.AttachmentStore) RouterOption {
	return func(r *Router) {
		r.primary = store
	}
}

// NewRouter creates a Router around the fallback store for plain references
func NewRouter(fallback interfaces.AttachmentStore, opts ...RouterOption) *Router {
	r := &Router{
		primary:  fallback,
		fallback: fallback,
		schemes:  make(map[string]interfaces.AttachmentStore),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Put stores an upload in the primary store
func (r *Router) Put(ctx context.Context, filename string, content io.Reader) (string, error) {
	return r.primary.Put(ctx, filename, content)
}

// Resolve dispatches a reference to its backend. http(s) references are
// returned as link-only attachments without content.
func (r *Router) Resolve(ctx context.Context, ref string) (*model.Attachment, error) {
	scheme, _, found := strings.Cut(ref, "://")
	if !found {
		return r.fallback.Resolve(ctx, ref)
	}

	switch scheme {
	case "http", "https":
		u, err := url.Parse(ref)
		if err != nil || u.Host == "" {
			return nil, goerr.Wrap(model.ErrAttachmentNotFound, "invalid attachment URL", goerr.V("ref", ref))
		}
		return &model.Attachment{
			Ref:      ref,
			Filename: path.Base(u.Path),
		}, nil
	}

	store, ok := r.schemes[scheme]
	if !ok {
		return nil, goerr.Wrap(model.ErrAttachmentNotFound, "no store configured for reference scheme",
			goerr.V("ref", ref),
			goerr.V("scheme", scheme))
	}
	return store.Resolve(ctx, ref)
}

package interfaces

//go:generate moq -out mocks/transport_mock.go -pkg mocks . Transport Session AttachmentStore

import (
	"context"
	"io"

	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// Transport opens delivery sessions for one channel.
// A Transport does not serialize sessions; callers that dispatch batches
// concurrently must either open one session per batch or synchronize themselves.
type Transport interface {
	Channel() types.Channel
	// IsConfigured reports whether the transport has enough settings to open a session
	IsConfigured() bool
	// Open establishes an authenticated session. Failures are wrapped in
	// model.ErrConnect or model.ErrAuth.
	Open(ctx context.Context) (Session, error)
}

// Session sends messages over one established connection
type Session interface {
	// Send delivers one message. Errors are scoped to that message.
	Send(ctx context.Context, msg *model.Message) error
	Close() error
}

// AttachmentStore resolves attachment references into content
type AttachmentStore interface {
	// Resolve loads an attachment. Missing references are wrapped in model.ErrAttachmentNotFound.
	Resolve(ctx context.Context, ref string) (*model.Attachment, error)
	// Put stores uploaded content and returns a reference usable with Resolve
	Put(ctx context.Context, filename string, r io.Reader) (string, error)
}

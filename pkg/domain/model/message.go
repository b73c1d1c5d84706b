package model

import (
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// Attachment is a resolved attachment ready to be sent
type Attachment struct {
	Ref         string
	Filename    string
	ContentType string
	Data        []byte
}

// IsLink reports whether the attachment is a URL reference without content
func (a *Attachment) IsLink() bool {
	return a.Data == nil
}

// Message is one composed notification for one recipient
type Message struct {
	To          Address
	ToName      string
	Subject     string
	Body        string
	ContentKind types.ContentKind
	Attachments []*Attachment
}

// NewMessage composes the message sent to a recipient from a batch request
func NewMessage(recipient *Recipient, req *RecipientRequest, attachments []*Attachment) *Message {
	return &Message{
		To:          recipient.Address,
		ToName:      recipient.DisplayName,
		Subject:     req.Subject,
		Body:        req.Body,
		ContentKind: req.ContentKind(),
		Attachments: attachments,
	}
}

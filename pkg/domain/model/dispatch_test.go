package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

func TestRecipientRequestValidate(t *testing.T) {
	tests := []struct {
		name           string
		req            model.RecipientRequest
		requireSubject bool
		errContains    string
	}{
		{
			name:        "no recipients",
			req:         model.RecipientRequest{Subject: "Hi", Body: "Hello"},
			errContains: "no recipients",
		},
		{
			name:           "missing subject",
			req:            model.RecipientRequest{RecipientIDs: []types.ClientID{1}, Body: "Hello"},
			requireSubject: true,
			errContains:    "missing subject or body",
		},
		{
			name:        "missing body",
			req:         model.RecipientRequest{RecipientIDs: []types.ClientID{1}, Subject: "Hi"},
			errContains: "missing subject or body",
		},
		{
			name:           "blank subject",
			req:            model.RecipientRequest{RecipientIDs: []types.ClientID{1}, Subject: "  ", Body: "Hello"},
			requireSubject: true,
			errContains:    "missing subject or body",
		},
		{
			name:        "blank body",
			req:         model.RecipientRequest{RecipientIDs: []types.ClientID{1}, Body: "\n\t"},
			errContains: "missing subject or body",
		},
		{
			name: "subject optional",
			req:  model.RecipientRequest{RecipientIDs: []types.ClientID{1}, Body: "Hello"},
		},
		{
			name:           "valid",
			req:            model.RecipientRequest{RecipientIDs: []types.ClientID{1}, Subject: "Hi", Body: "Hello"},
			requireSubject: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(tt.requireSubject)
			if tt.errContains == "" {
				gt.NoError(t, err)
				return
			}
			gt.Error(t, err)
			gt.True(t, errors.Is(err, model.ErrInvalidRequest))
			gt.S(t, err.Error()).Contains(tt.errContains)
		})
	}
}

func TestRecipientRequestContentKind(t *testing.T) {
	tests := []struct {
		body     string
		expected types.ContentKind
	}{
		{"Hello there", types.ContentKindPlain},
		{"<p>Hello</p>", types.ContentKindHTML},
		{"Price < 10", types.ContentKindHTML},
		{"<", types.ContentKindHTML},
		{"a > b", types.ContentKindPlain},
		{"Hi <b>you</b>", types.ContentKindHTML},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			req := model.RecipientRequest{Body: tt.body}
			gt.Equal(t, req.ContentKind(), tt.expected)
		})
	}
}

func TestDispatchOutcome(t *testing.T) {
	o := model.NewDispatchOutcome(types.ChannelEmail, 4, 3)
	o.RecordSent()
	o.RecordFailure("Bob", "Bob has no usable contact address")
	o.RecordSent()
	o.Warn("unknown recipient id %d", 9)

	gt.Equal(t, o.SentCount, 2)
	gt.Equal(t, o.Attempted(), 3)
	gt.Equal(t, o.Attempted(), o.TotalResolved)
	gt.True(t, o.IsPartial())
	gt.Equal(t, len(o.Warnings), 1)
	gt.Equal(t, o.Warnings[0], "unknown recipient id 9")
	gt.Equal(t, o.Summary(), "email dispatch: 2/3 sent, 1 failed, 1 warnings")
}

func TestNewMessage(t *testing.T) {
	recipient := &model.Recipient{
		ID:          1,
		DisplayName: "Maria",
		Address:     model.Address{Kind: types.AddressKindEmail, Value: "maria@example.com"},
		HasAddress:  true,
	}
	req := &model.RecipientRequest{Subject: "Hi", Body: "<h1>Hello</h1>"}
	attachment := &model.Attachment{Filename: "a.txt", Data: []byte("x")}

	msg := model.NewMessage(recipient, req, []*model.Attachment{attachment})
	gt.Equal(t, msg.To.Value, "maria@example.com")
	gt.Equal(t, msg.ToName, "Maria")
	gt.Equal(t, msg.ContentKind, types.ContentKindHTML)
	gt.Equal(t, len(msg.Attachments), 1)
}

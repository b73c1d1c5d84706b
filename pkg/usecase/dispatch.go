package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// Dispatcher sends one notification per resolved recipient over a single
// transport session and reports what happened to each of them.
type Dispatcher struct {
	repo      interfaces.ClientRepository
	transport interfaces.Transport
	store     interfaces.AttachmentStore
}

// NewDispatcher creates a Dispatcher. store may be nil when attachments are never used.
func NewDispatcher(repo interfaces.ClientRepository, transport interfaces.Transport, store interfaces.AttachmentStore) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		transport: transport,
		store:     store,
	}
}

// Dispatch runs one batch. A non-nil error means no outcome is available,
// except for ErrTimeout which is returned together with the partial outcome.
// Per-recipient problems never abort the batch and are reported in the outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, req *model.RecipientRequest) (*model.DispatchOutcome, error) {
	if req == nil {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "no recipients")
	}

	channel := d.transport.Channel()
	if err := req.Validate(channel == types.ChannelEmail); err != nil {
		return nil, err
	}
	if !d.transport.IsConfigured() {
		return nil, goerr.Wrap(model.ErrConfiguration, "transport not configured",
			goerr.V("channel", channel))
	}

	logger := ctxlog.From(ctx).With("channel", channel)

	recipients, err := d.repo.ResolveRecipients(ctx, req.RecipientIDs, channel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve recipients",
			goerr.V("requested", len(req.RecipientIDs)))
	}
	if len(recipients) == 0 {
		return nil, goerr.Wrap(model.ErrNotFound, "no recipients resolved",
			goerr.V("ids", req.RecipientIDs))
	}

	requested := distinctIDs(req.RecipientIDs)
	outcome := model.NewDispatchOutcome(channel, len(requested), len(recipients))
	warnUnknownRecipients(outcome, requested, recipients)
	attachments := carriedBy(channel, d.resolveAttachments(ctx, req.Attachments, outcome), outcome)

	session, err := d.transport.Open(ctx)
	if err != nil {
		if ctxErr := ctxEnded(ctx); ctxErr != nil {
			return nil, goerr.Wrap(model.ErrTimeout, "deadline exceeded while opening session",
				goerr.V("cause", ctxErr.Error()),
				goerr.V("channel", channel))
		}
		return nil, goerr.Wrap(err, "failed to open transport session",
			goerr.V("channel", channel))
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("failed to close transport session", "error", err)
		}
	}()

	for _, recipient := range recipients {
		if ctxErr := ctxEnded(ctx); ctxErr != nil {
			return outcome, interrupted(outcome, ctxErr)
		}

		if !recipient.HasAddress {
			outcome.RecordFailure(recipient.DisplayName,
				fmt.Sprintf("%s has no usable contact address", recipient.DisplayName))
			continue
		}

		msg := model.NewMessage(recipient, req, attachments)
		if err := session.Send(ctx, msg); err != nil {
			if ctxErr := ctxEnded(ctx); ctxErr != nil {
				return outcome, interrupted(outcome, ctxErr)
			}
			logger.Warn("failed to send notification",
				"client_id", recipient.ID,
				"address", recipient.Address.Value,
				"error", err)
			outcome.RecordFailure(recipient.DisplayName,
				fmt.Sprintf("error sending to %s: %s", recipient.Address.Value, err.Error()))
			continue
		}

		logger.Debug("notification sent", "client_id", recipient.ID)
		outcome.RecordSent()
	}

	logger.Info("dispatch finished",
		"sent", outcome.SentCount,
		"failed", len(outcome.Failures),
		"warnings", len(outcome.Warnings))
	return outcome, nil
}

func interrupted(outcome *model.DispatchOutcome, cause error) error {
	return goerr.Wrap(model.ErrTimeout, "dispatch interrupted",
		goerr.V("cause", cause.Error()),
		goerr.V("attempted", outcome.Attempted()),
		goerr.V("resolved", outcome.TotalResolved))
}

// ctxEnded reports why ctx is over. A passed deadline counts even when ctx
// is not marked done yet.
func ctxEnded(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return context.DeadlineExceeded
	}
	return nil
}

// distinctIDs drops repeated IDs, keeping the first occurrence
func distinctIDs(ids []types.ClientID) []types.ClientID {
	seen := make(map[types.ClientID]struct{}, len(ids))
	out := make([]types.ClientID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// warnUnknownRecipients reports requested IDs that the repository did not return
func warnUnknownRecipients(outcome *model.DispatchOutcome, requested []types.ClientID, resolved []*model.Recipient) {
	found := make(map[types.ClientID]struct{}, len(resolved))
	for _, r := range resolved {
		found[r.ID] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			outcome.Warn("unknown recipient %s", id)
		}
	}
}

// resolveAttachments loads all references once per batch. Unresolvable
// references are dropped and turned into warnings.
func (d *Dispatcher) resolveAttachments(ctx context.Context, refs []string, outcome *model.DispatchOutcome) []*model.Attachment {
	if len(refs) == 0 {
		return nil
	}
	if d.store == nil {
		for _, ref := range refs {
			outcome.Warn("attachment %s skipped: no attachment store", ref)
		}
		return nil
	}

	attachments := make([]*model.Attachment, 0, len(refs))
	for _, ref := range refs {
		attachment, err := d.store.Resolve(ctx, ref)
		switch {
		case err == nil:
			attachments = append(attachments, attachment)
		case errors.Is(err, model.ErrAttachmentNotFound):
			outcome.Warn("attachment %s not found, skipped", ref)
		default:
			ctxlog.From(ctx).Warn("failed to resolve attachment", "ref", ref, "error", err)
			outcome.Warn("attachment %s could not be loaded, skipped", ref)
		}
	}
	return attachments
}

// carriedBy keeps the attachments the channel can deliver. Email embeds
// content, so link-only attachments are skipped; WhatsApp sends a single
// public media link.
func carriedBy(channel types.Channel, attachments []*model.Attachment, outcome *model.DispatchOutcome) []*model.Attachment {
	kept := make([]*model.Attachment, 0, len(attachments))
	for _, att := range attachments {
		switch {
		case channel == types.ChannelEmail && att.IsLink(),
			channel == types.ChannelWhatsApp && !att.IsLink():
			outcome.Warn("attachment %s cannot be sent on %s, skipped", att.Ref, channel)
		case channel == types.ChannelWhatsApp && len(kept) > 0:
			outcome.Warn("attachment %s skipped: %s carries one media link per message", att.Ref, channel)
		default:
			kept = append(kept, att)
		}
	}
	return kept
}

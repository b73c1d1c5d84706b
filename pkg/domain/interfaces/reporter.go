package interfaces

//go:generate moq -out mocks/reporter_mock.go -pkg mocks . Reporter SlackPoster

import (
	"context"

	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Reporter publishes a finished dispatch outcome somewhere humans can read it
type Reporter interface {
	Report(ctx context.Context, outcome *model.DispatchOutcome) error
}

// SlackPoster is the subset of *slack.Client used for reporting
type SlackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

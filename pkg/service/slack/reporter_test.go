package slack_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces/mocks"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
	slacksvc "github.com/nelsonrsmacedo-nrsm/hermescad/pkg/service/slack"
	"github.com/slack-go/slack"
)

func newOutcome() *model.DispatchOutcome {
	outcome := model.NewDispatchOutcome(types.ChannelEmail, 3, 3)
	outcome.RecordSent()
	outcome.RecordSent()
	outcome.RecordFailure("bob@example.com", "error sending to bob@example.com: mailbox full")
	outcome.Warn("unknown recipient %d", 42)
	return outcome
}

func TestReporter(t *testing.T) {
	ctx := context.Background()

	t.Run("posts summary and details", func(t *testing.T) {
		poster := &mocks.SlackPosterMock{
			PostMessageContextFunc: func(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
				return channelID, "1700000000.000100", nil
			},
		}
		reporter := slacksvc.NewReporter(poster, "C123")
		gt.NoError(t, reporter.Report(ctx, newOutcome())).Required()

		calls := poster.PostMessageContextCalls()
		gt.Equal(t, len(calls), 1)
		gt.Equal(t, calls[0].ChannelID, "C123")

		_, values, err := slack.UnsafeApplyMsgOptions("xoxb-test", "C123", "https://slack.com/api/", calls[0].Options...)
		gt.NoError(t, err).Required()
		gt.Equal(t, values.Get("text"), "email dispatch: 2/3 sent, 1 failed, 1 warnings")

		blocks := values.Get("blocks")
		gt.S(t, blocks).Contains("mailbox full")
		gt.S(t, blocks).Contains("unknown recipient 42")
		gt.S(t, blocks).Contains("Failures")
	})

	t.Run("truncates long failure lists", func(t *testing.T) {
		poster := &mocks.SlackPosterMock{
			PostMessageContextFunc: func(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
				return channelID, "1", nil
			},
		}
		outcome := model.NewDispatchOutcome(types.ChannelWhatsApp, 15, 15)
		for i := range 15 {
			outcome.RecordFailure(fmt.Sprintf("client-%d", i), "no usable contact address")
		}

		gt.NoError(t, slacksvc.NewReporter(poster, "C1").Report(ctx, outcome)).Required()
		_, values, err := slack.UnsafeApplyMsgOptions("xoxb-test", "C1", "https://slack.com/api/", poster.PostMessageContextCalls()[0].Options...)
		gt.NoError(t, err).Required()
		blocks := values.Get("blocks")
		gt.S(t, blocks).Contains("and 5 more")
		gt.False(t, strings.Contains(blocks, "client-14"))
	})

	t.Run("wraps post errors", func(t *testing.T) {
		errPost := errors.New("channel_not_found")
		poster := &mocks.SlackPosterMock{
			PostMessageContextFunc: func(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
				return "", "", errPost
			},
		}
		err := slacksvc.NewReporter(poster, "C404").Report(ctx, newOutcome())
		gt.Error(t, err)
		gt.True(t, errors.Is(err, errPost))
	})

	t.Run("nil outcome is ignored", func(t *testing.T) {
		poster := &mocks.SlackPosterMock{}
		gt.NoError(t, slacksvc.NewReporter(poster, "C1").Report(ctx, nil))
		gt.Equal(t, len(poster.PostMessageContextCalls()), 0)
	})
}

package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/slack-go/slack"
)

// maxListedItems caps failure and warning lines in one report
const maxListedItems = 10

// Reporter posts dispatch outcomes to a Slack channel
type Reporter struct {
	client    interfaces.SlackPoster
	channelID string
}

var _ interfaces.Reporter = (*Reporter)(nil)

// NewReporter creates a Reporter. The client is usually *slack.Client.
func NewReporter(client interfaces.SlackPoster, channelID string) *Reporter {
	return &Reporter{
		client:    client,
		channelID: channelID,
	}
}

// NewReporterFromToken creates a Reporter backed by a bot token
func NewReporterFromToken(token, channelID string) *Reporter {
	return NewReporter(slack.New(token), channelID)
}

// Report posts the outcome summary with its failures and warnings
func (r *Reporter) Report(ctx context.Context, outcome *model.DispatchOutcome) error {
	if outcome == nil {
		return nil
	}

	_, ts, err := r.client.PostMessageContext(ctx, r.channelID,
		slack.MsgOptionText(outcome.Summary(), false),
		slack.MsgOptionBlocks(buildOutcomeBlocks(outcome)...),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post dispatch outcome to Slack",
			goerr.V("channel_id", r.channelID),
			goerr.V("channel", outcome.Channel))
	}

	ctxlog.From(ctx).Debug("dispatch outcome posted to Slack",
		"channel_id", r.channelID,
		"ts", ts)
	return nil
}

func outcomeEmoji(outcome *model.DispatchOutcome) string {
	switch {
	case outcome.SentCount == 0:
		return "🚨"
	case outcome.IsPartial():
		return "⚠️"
	default:
		return "✅"
	}
}

func buildOutcomeBlocks(outcome *model.DispatchOutcome) []slack.Block {
	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("%s *%s*", outcomeEmoji(outcome), outcome.Summary()), false, false),
			[]*slack.TextBlockObject{
				slack.NewTextBlockObject(slack.MarkdownType,
					fmt.Sprintf("*Requested:*\n%d", outcome.TotalRequested), false, false),
				slack.NewTextBlockObject(slack.MarkdownType,
					fmt.Sprintf("*Resolved:*\n%d", outcome.TotalResolved), false, false),
			},
			nil,
		),
	}

	if len(outcome.Failures) > 0 {
		lines := make([]string, 0, len(outcome.Failures))
		for _, f := range outcome.Failures {
			lines = append(lines, fmt.Sprintf("• %s: %s", f.RecipientLabel, f.Reason))
		}
		blocks = append(blocks, listBlock("Failures", lines))
	}
	if len(outcome.Warnings) > 0 {
		lines := make([]string, 0, len(outcome.Warnings))
		for _, w := range outcome.Warnings {
			lines = append(lines, "• "+w)
		}
		blocks = append(blocks, listBlock("Warnings", lines))
	}

	return blocks
}

func listBlock(title string, lines []string) slack.Block {
	if len(lines) > maxListedItems {
		rest := len(lines) - maxListedItems
		lines = append(lines[:maxListedItems:maxListedItems], fmt.Sprintf("…and %d more", rest))
	}
	text := fmt.Sprintf("*%s*\n%s", title, strings.Join(lines, "\n"))
	return slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
		nil, nil,
	)
}

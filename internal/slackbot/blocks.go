package slackbot

import (
	"github.com/slack-go/slack"

	"idt-crispr-bot/internal/model"
)

// ToBlocks converts a rendered message to Block Kit.
func ToBlocks(msg model.Message) []slack.Block {
	out := make([]slack.Block, 0, len(msg.Blocks))
	for _, b := range msg.Blocks {
		switch b.Kind {
		case model.BlockHeader:
			out = append(out, slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, b.Text, true, false)))
		case model.BlockContext:
			out = append(out, slack.NewContextBlock("", slack.NewTextBlockObject(slack.MarkdownType, b.Text, false, false)))
		case model.BlockDivider:
			out = append(out, slack.NewDividerBlock())
		case model.BlockSection:
			out = append(out, slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, b.Text, false, false), nil, nil))
		}
	}
	return out
}

func webhookMessage(r model.Reply) *slack.WebhookMessage {
	msg := &slack.WebhookMessage{
		Text:         r.Message.Text,
		ResponseType: string(r.Visibility),
	}
	if blocks := ToBlocks(r.Message); len(blocks) > 0 {
		msg.Blocks = &slack.Blocks{BlockSet: blocks}
	}
	return msg
}

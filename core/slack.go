package core

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// Slack rejects messages with more than 50 blocks; stay under that.
const MaxBlocksPerMessage = 45

const defaultSlackTitle = "Weekly Calendar for Client Calls"

type SlackPoster struct {
	token     string
	apiURL    string
	title     string
	maxBlocks int
	log       *zap.Logger
	client    *slack.Client
}

func NewSlackPoster(token string, opts ...func(*SlackPoster)) *SlackPoster {
	p := &SlackPoster{
		token:     token,
		title:     defaultSlackTitle,
		maxBlocks: MaxBlocksPerMessage,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	var clientOpts []slack.Option
	if p.apiURL != "" {
		clientOpts = append(clientOpts, slack.OptionAPIURL(p.apiURL))
	}
	p.client = slack.New(p.token, clientOpts...)
	return p
}

// For testing
func WithSlackAPIURL(url string) func(*SlackPoster) {
	return func(p *SlackPoster) {
		p.apiURL = url
	}
}

func WithSlackTitle(title string) func(*SlackPoster) {
	return func(p *SlackPoster) {
		if title != "" {
			p.title = title
		}
	}
}

// WithMaxBlocks caps blocks per message. Values below 3 leave no room
// for content next to the title header and divider and are ignored.
func WithMaxBlocks(n int) func(*SlackPoster) {
	return func(p *SlackPoster) {
		if n >= 3 {
			p.maxBlocks = n
		}
	}
}

func WithSlackLogger(log *zap.Logger) func(*SlackPoster) {
	return func(p *SlackPoster) {
		p.log = log
	}
}

// messages lays blocks out over as many messages as needed. The first one
// opens with the title header and a divider, each continuation with a divider.
func (p *SlackPoster) messages(blocks []slack.Block) [][]slack.Block {
	first := min(len(blocks), p.maxBlocks-2)

	opening := []slack.Block{headerBlock(p.title), slack.NewDividerBlock()}
	msgs := [][]slack.Block{append(opening, blocks[:first]...)}

	for _, group := range Chunk(blocks[first:], p.maxBlocks-1) {
		msg := append([]slack.Block{slack.NewDividerBlock()}, group...)
		msgs = append(msgs, msg)
	}
	return msgs
}

// PostCalendar sends blocks to channel and returns the timestamp of every
// message posted. It stops at the first failed message.
func (p *SlackPoster) PostCalendar(ctx context.Context, channel string, blocks []slack.Block) ([]string, error) {
	msgs := p.messages(blocks)
	stamps := make([]string, 0, len(msgs))

	for i, msg := range msgs {
		fallback := "Your weekly calendar information (Part)"
		if i == len(msgs)-1 {
			fallback = "Your weekly calendar information (Final Part)"
		}

		_, ts, err := p.client.PostMessageContext(ctx, channel,
			slack.MsgOptionBlocks(msg...),
			slack.MsgOptionText(fallback, false),
		)
		if err != nil {
			return stamps, fmt.Errorf("post message %d/%d to %s: %w", i+1, len(msgs), channel, err)
		}

		p.log.Info("slack message sent",
			zap.String("channel", channel),
			zap.String("ts", ts),
			zap.Int("part", i+1),
			zap.Int("parts", len(msgs)),
			zap.Int("blocks", len(msg)),
		)
		stamps = append(stamps, ts)
	}
	return stamps, nil
}

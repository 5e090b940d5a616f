package engine

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
)

// ModelClient abstracts the Anthropic API so the loop can be run against a
// fake in tests. Stream invokes onDelta for each text fragment and returns
// the fully accumulated message.
type ModelClient interface {
	Create(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
	Stream(ctx context.Context, params anthropic.MessageNewParams, onDelta func(string)) (*anthropic.Message, error)
}

// AnthropicClient adapts *anthropic.Client to ModelClient.
type AnthropicClient struct {
	client *anthropic.Client
}

// NewAnthropicClient wraps an Anthropic SDK client.
func NewAnthropicClient(client *anthropic.Client) *AnthropicClient {
	return &AnthropicClient{client: client}
}

func (a *AnthropicClient) Create(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return a.client.Messages.New(ctx, params)
}

func (a *AnthropicClient) Stream(ctx context.Context, params anthropic.MessageNewParams, onDelta func(string)) (*anthropic.Message, error) {
	stream := a.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	message := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := message.Accumulate(event); err != nil {
			continue
		}

		switch evt := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch delta := evt.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if onDelta != nil {
					onDelta(delta.Text)
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return nil, err
	}
	return &message, nil
}

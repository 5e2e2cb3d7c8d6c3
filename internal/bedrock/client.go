// Package bedrock implements the converter's Invoker on the AWS Bedrock
// Converse API. Credentials come from the ambient AWS environment; the
// client is parameterized by region and model ID at construction.
package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// DefaultModelID is the cross-region inference profile used when no model is
// configured.
const DefaultModelID = "us.anthropic.claude-sonnet-4-5-20250929-v1:0"

// Client calls a Bedrock model through the Converse API.
type Client struct {
	runtime     *bedrockruntime.Client
	modelID     string
	maxTokens   int32
	temperature float32
}

// Options configure a Client beyond region and model.
type Options struct {
	MaxTokens   int32   // defaults to 4096
	Temperature float32 // defaults to 0.1
}

// New loads the ambient AWS configuration for the given region and returns a
// Converse client for the given model.
func New(ctx context.Context, region, modelID string, opts Options) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	if modelID == "" {
		modelID = DefaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 4096
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.1
	}

	return &Client{
		runtime:     bedrockruntime.NewFromConfig(cfg),
		modelID:     modelID,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}, nil
}

// Converse sends one synchronous request and returns the text of the model's
// reply. The prefill is sent as the start of the assistant turn, so the
// returned text continues from it.
func (c *Client) Converse(ctx context.Context, system, user, prefill string) (string, error) {
	messages := []types.Message{
		{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: user}},
		},
	}
	if prefill != "" {
		messages = append(messages, types.Message{
			Role:    types.ConversationRoleAssistant,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prefill}},
		})
	}

	out, err := c.runtime.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId:  aws.String(c.modelID),
		Messages: messages,
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: system},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(c.maxTokens),
			Temperature: aws.Float32(c.temperature),
		},
	})
	if err != nil {
		return "", fmt.Errorf("bedrock converse: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("bedrock converse: unexpected output type %T", out.Output)
	}

	var reply string
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			reply += text.Value
		}
	}
	if reply == "" {
		return "", fmt.Errorf("bedrock converse: reply contains no text content")
	}
	return reply, nil
}

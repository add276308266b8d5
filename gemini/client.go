package gemini

import (
	"context"
	"errors"

	"github.com/fwojciec/vidgrade"
	"google.golang.org/genai"
)

// Client wraps the Gemini genai.Client.
type Client struct {
	client *genai.Client
}

// NewClient creates a new Client with the given API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Client{client: client}, nil
}

// GenerateContent implements GenerativeClient by delegating to the genai.Client.
func (c *Client) GenerateContent(ctx context.Context, model string, contents []*Content, config *GenerateContentConfig) (*GenerateContentResponse, error) {
	genaiContents := make([]*genai.Content, len(contents))
	for i, content := range contents {
		genaiContents[i] = &genai.Content{Role: content.Role, Parts: convertParts(content.Parts)}
	}

	genaiConfig := &genai.GenerateContentConfig{}
	if config != nil {
		genaiConfig.Temperature = config.Temperature
		genaiConfig.MaxOutputTokens = config.MaxOutputTokens
		genaiConfig.ResponseMIMEType = config.ResponseMIMEType
		if config.SystemInstruction != nil {
			genaiConfig.SystemInstruction = &genai.Content{Parts: convertParts(config.SystemInstruction.Parts)}
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, model, genaiContents, genaiConfig)
	if err != nil {
		return nil, wrapAPIError(err)
	}

	return &GenerateContentResponse{Text: result.Text()}, nil
}

func convertParts(parts []*Part) []*genai.Part {
	out := make([]*genai.Part, len(parts))
	for i, part := range parts {
		if part.InlineData != nil {
			out[i] = &genai.Part{InlineData: &genai.Blob{
				MIMEType: part.InlineData.MIMEType,
				Data:     part.InlineData.Data,
			}}
			continue
		}
		out[i] = &genai.Part{Text: part.Text}
	}
	return out
}

// wrapAPIError converts genai.APIError to vidgrade.APIError.
func wrapAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &vidgrade.APIError{
			Platform:   Platform,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
		}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &vidgrade.APIError{
			Platform:   Platform,
			StatusCode: apiErrPtr.Code,
			Message:    apiErrPtr.Message,
		}
	}
	return err
}

// Compile-time check that Client implements GenerativeClient.
var _ GenerativeClient = (*Client)(nil)

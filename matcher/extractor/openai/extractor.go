package openai

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/identity/matcher/extractor"
)

// openAIExtractor delegates feature extraction to an OpenAI-compatible
// embeddings endpoint. Self-hosted speaker/face embedding servers commonly
// expose this API; the raw signal travels base64-encoded as the input.
type openAIExtractor struct {
	options extractor.Options
	client  *openai.Client
}

func (e *openAIExtractor) Extract(ctx context.Context, signal []byte) ([]float32, error) {
	encoded := base64.StdEncoding.EncodeToString(signal)

	rsp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{encoded},
		Model: openai.EmbeddingModel(e.options.Model),
	})
	if err != nil {
		return nil, err
	}

	if len(rsp.Data) == 0 || len(rsp.Data[0].Embedding) == 0 {
		return nil, errors.New("no embedding in response")
	}

	return rsp.Data[0].Embedding, nil
}

func NewExtractor(opts ...extractor.Option) extractor.Extractor {
	options := extractor.NewOptions(opts...)

	e := &openAIExtractor{
		options: options,
	}

	config := openai.DefaultConfig(options.ApiKey)
	if len(options.BaseUrl) > 0 {
		config.BaseURL = options.BaseUrl
	}

	e.client = openai.NewClientWithConfig(config)

	return e
}

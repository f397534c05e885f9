package matcher

import (
	"context"

	"github.com/w-h-a/identity/index"
	"github.com/w-h-a/identity/matcher/extractor"
)

type Option func(*Options)

type Options struct {
	Index     index.Index
	Extractor extractor.Extractor

	// Threshold is the maximum cosine distance at which the closest match
	// is still accepted. Cosine distance lives in [0, 2]; the 0.75 default
	// is deliberately permissive and operators of tight deployments should
	// lower it.
	Threshold float64
	TopK      int
	Context   context.Context
}

func WithIndex(index index.Index) Option {
	return func(o *Options) {
		o.Index = index
	}
}

func WithExtractor(extractor extractor.Extractor) Option {
	return func(o *Options) {
		o.Extractor = extractor
	}
}

func WithThreshold(threshold float64) Option {
	return func(o *Options) {
		o.Threshold = threshold
	}
}

func WithTopK(topK int) Option {
	return func(o *Options) {
		o.TopK = topK
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Threshold: 0.75,
		TopK:      3,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

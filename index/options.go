package index

import "context"

type Option func(*Options)

type Options struct {
	Location string
	Metric   Metric
	Context  context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithMetric(metric Metric) Option {
	return func(o *Options) {
		o.Metric = metric
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Metric:  Cosine,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

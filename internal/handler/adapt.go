package handler

import "context"

// adapt converts a request body before calling a create style service method.
func adapt[Req, In, Out any](fn func(context.Context, In) (*Out, error), convert func(Req) In) func(context.Context, Req) (*Out, error) {
	return func(ctx context.Context, req Req) (*Out, error) {
		return fn(ctx, convert(req))
	}
}

// adaptID is adapt for update style methods that also take an id.
func adaptID[Req, In, Out any](fn func(context.Context, uint, In) (*Out, error), convert func(Req) In) func(context.Context, uint, Req) (*Out, error) {
	return func(ctx context.Context, id uint, req Req) (*Out, error) {
		return fn(ctx, id, convert(req))
	}
}

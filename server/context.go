package server

import (
	"context"
)

type activeContext struct {
	context.Context
	context.CancelFunc
}

func newActiveContext(parent context.Context) *activeContext {
	ctx, cancel := context.WithCancel(parent)
	return &activeContext{
		Context:    ctx,
		CancelFunc: cancel,
	}
}

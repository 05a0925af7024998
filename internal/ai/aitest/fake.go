// Package aitest provides a scripted ai.Gateway for tests.
package aitest

import (
	"context"
	"sync"

	"cvwizard/internal/ai"
	"cvwizard/internal/config"
)

// Call records one gateway invocation.
type Call struct {
	Op      config.Operation
	Request ai.Request
	History []ai.Turn
	Prompt  string
	Chat    bool
}

// Reply is a scripted response. Err takes precedence over Text.
type Reply struct {
	Text string
	Err  error
}

// Gateway replays scripted replies per operation, in order. When an
// operation's script runs out, the last reply repeats.
type Gateway struct {
	mu      sync.Mutex
	replies map[config.Operation][]Reply
	served  map[config.Operation]int
	calls   []Call
}

func NewGateway() *Gateway {
	return &Gateway{
		replies: make(map[config.Operation][]Reply),
		served:  make(map[config.Operation]int),
	}
}

// Reply appends text replies for op.
func (g *Gateway) Reply(op config.Operation, texts ...string) *Gateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, t := range texts {
		g.replies[op] = append(g.replies[op], Reply{Text: t})
	}
	return g
}

// Fail appends an error reply for op.
func (g *Gateway) Fail(op config.Operation, err error) *Gateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replies[op] = append(g.replies[op], Reply{Err: err})
	return g
}

func (g *Gateway) Generate(ctx context.Context, op config.Operation, req ai.Request) (ai.Response, error) {
	return g.serve(ctx, Call{Op: op, Request: req})
}

func (g *Gateway) ContinueChat(ctx context.Context, op config.Operation, history []ai.Turn, prompt string) (ai.Response, error) {
	h := make([]ai.Turn, len(history))
	copy(h, history)
	return g.serve(ctx, Call{Op: op, History: h, Prompt: prompt, Chat: true})
}

func (g *Gateway) serve(ctx context.Context, call Call) (ai.Response, error) {
	if err := ctx.Err(); err != nil {
		return ai.Response{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)

	script := g.replies[call.Op]
	if len(script) == 0 {
		return ai.Response{Text: "{}"}, nil
	}
	i := min(g.served[call.Op], len(script)-1)
	g.served[call.Op]++

	r := script[i]
	if r.Err != nil {
		return ai.Response{}, r.Err
	}
	return ai.Response{Text: r.Text, Usage: &ai.TokenUsage{TotalTokens: int64(len(r.Text))}}, nil
}

// Calls returns a copy of the recorded invocations.
func (g *Gateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Call, len(g.calls))
	copy(out, g.calls)
	return out
}

// LastCall panics when nothing was called.
func (g *Gateway) LastCall() Call {
	calls := g.Calls()
	return calls[len(calls)-1]
}

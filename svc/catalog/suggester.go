package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrymomot/pharmakit/pkg/debounce"
	"github.com/dmitrymomot/pharmakit/pkg/logger"
)

// Suggestions is what a Suggester delivers for one query.
type Suggestions struct {
	Query   string
	Results []Medicine
	Err     error
}

// Suggester turns keystrokes into debounced searches.
type Suggester struct {
	svc     *Service
	deliver func(Suggestions)
	bounce  *debounce.Debouncer

	mu  sync.Mutex
	gen uint64
}

// NewSuggester delivers results for the latest query only. deliver runs on a
// timer goroutine while the suggester is locked, so it must not call Type.
func (s *Service) NewSuggester(deliver func(Suggestions)) *Suggester {
	return &Suggester{
		svc:     s,
		deliver: deliver,
		bounce:  debounce.New(s.suggestDelay),
	}
}

// Type records the current input. A blank input clears suggestions at once.
func (g *Suggester) Type(ctx context.Context, query string) {
	g.mu.Lock()
	g.gen++
	gen := g.gen
	g.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		g.bounce.Cancel()
		g.publish(ctx, gen, Suggestions{Query: query})
		return
	}

	g.bounce.Trigger(ctx, func(ctx context.Context) {
		results, err := g.svc.Search(ctx, query)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			g.svc.logger.DebugContext(ctx, "suggestion search failed",
				logger.Component("catalog"),
				logger.Error(err),
			)
		}
		g.publish(ctx, gen, Suggestions{Query: query, Results: results, Err: err})
	})
}

// Stop drops pending input and cancels an in-flight search.
func (g *Suggester) Stop() {
	g.mu.Lock()
	g.gen++
	g.mu.Unlock()
	g.bounce.Cancel()
}

func (g *Suggester) publish(ctx context.Context, gen uint64, s Suggestions) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.gen || ctx.Err() != nil {
		return
	}
	g.deliver(s)
}

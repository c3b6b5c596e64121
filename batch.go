package pcfg

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Span is the half-open range [Begin, End) of sentence indices given to one
// worker
type Span struct {
	Begin int
	End   int
}

// Len returns the number of sentences in the span
func (s Span) Len() int {
	return s.End - s.Begin
}

// Partition splits n sentences into exactly workers contiguous spans of
// n/workers sentences; the last span also takes the n%workers remainder.
// Spans may be empty when workers > n. workers < 1 counts as 1
func Partition(n, workers int) []Span {
	if workers < 1 {
		workers = 1
	}
	size := n / workers
	spans := make([]Span, workers)
	for i := range spans {
		spans[i] = Span{Begin: i * size, End: (i + 1) * size}
	}
	spans[workers-1].End += n % workers
	return spans
}

// BatchObserver is an Observer that is also told when a batch ends. run is
// the id shared by every Result of the batch
type BatchObserver interface {
	Observer
	ObserveBatch(run string, sentences, workers int, elapsed time.Duration)
}

// ParseAll parses every sentence using workers goroutines and returns the
// results in input order. Each worker owns the slice of results for its span,
// so no two workers write the same slot. A panic while parsing a sentence is
// turned into a Rejected result for that sentence only
func (p *Parser) ParseAll(sentences [][]Label, workers int) []Result {
	results, _ := p.ParseAllContext(context.Background(), sentences, workers)
	return results
}

// ParseAllContext is ParseAll with cancellation. Once ctx is done the workers
// stop, the sentences they did not reach are Rejected with the context error,
// and that error is returned
func (p *Parser) ParseAllContext(ctx context.Context, sentences [][]Label, workers int) ([]Result, error) {
	results := make([]Result, len(sentences))
	spans := Partition(len(sentences), workers)
	run := uuid.New().String()
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for id, span := range spans {
		id, span := id, span
		out := results[span.Begin:span.End:span.End]
		g.Go(func() error {
			if glog.V(1) {
				glog.Infof("run %s: worker %d parsing sentences [%d,%d)", run, id, span.Begin, span.End)
			}
			for i, tokens := range sentences[span.Begin:span.End] {
				if err := ctx.Err(); err != nil {
					for j := i; j < len(out); j++ {
						out[j] = Result{Outcome: Rejected, Err: err, Run: run}
					}
					return err
				}
				out[i] = p.safeParse(tokens)
				out[i].Run = run
				if out[i].Outcome == Rejected {
					glog.Warningf("run %s: sentence %d rejected: %v", run, span.Begin+i, out[i].Err)
				}
			}
			return nil
		})
	}
	err := g.Wait()

	elapsed := time.Since(start)
	if bo, ok := p.observer.(BatchObserver); ok {
		bo.ObserveBatch(run, len(sentences), len(spans), elapsed)
	}
	if err != nil {
		glog.Warningf("run %s: stopped after %v: %v", run, elapsed, err)
		return results, errors.Wrapf(err, "run %s", run)
	}
	glog.Infof("run %s: parsed %d sentences with %d workers in %v",
		run, len(sentences), len(spans), elapsed)
	return results, nil
}

// safeParse confines a panic to the sentence that caused it
func (p *Parser) safeParse(tokens []Label) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = errors.Errorf("%v", r)
			}
			result = Result{Outcome: Rejected, Err: err}
		}
	}()
	return p.Parse(tokens)
}

// ParseSerial parses every sentence on the calling goroutine
func (p *Parser) ParseSerial(sentences [][]Label) []Result {
	results := make([]Result, len(sentences))
	run := uuid.New().String()
	start := time.Now()
	for i, tokens := range sentences {
		results[i] = p.safeParse(tokens)
		results[i].Run = run
	}
	if bo, ok := p.observer.(BatchObserver); ok {
		bo.ObserveBatch(run, len(sentences), 1, time.Since(start))
	}
	return results
}

// Strings returns the output line of every result
func Strings(results []Result) []string {
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = r.String()
	}
	return lines
}

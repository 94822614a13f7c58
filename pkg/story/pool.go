package story

import (
	"context"
	"sync"

	"fable/pkg/inference"
)

// paintAll renders one image per prompt with at most `concurrency` calls in
// flight. Results are index-ordered regardless of completion order. The
// first failure cancels the remaining work and is returned as a
// PipelineError naming the failing page; partial results are discarded.
// onDone is called once per successful image, under lock, so reported
// completed counts never go backwards.
func paintAll(ctx context.Context, painter inference.Painter, prompts []string, concurrency int, opts inference.ImageOptions, onDone func(completed, total int)) ([]string, error) {
	n := len(prompts)
	if n == 0 {
		return nil, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > n {
		concurrency = n
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	indices := make(chan int, n)
	for i := range prompts {
		indices <- i
	}
	close(indices)

	results := make([]string, n)
	var (
		mu        sync.Mutex
		completed int
		firstErr  error
	)

	var wg sync.WaitGroup
	for range concurrency {
		wg.Go(func() {
			for idx := range indices {
				if ctx.Err() != nil {
					return
				}
				img, err := painter.Paint(ctx, prompts[idx], opts)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = &PipelineError{
							Stage: StageImages,
							Page:  idx + 1,
							Err:   &GenerationError{Capability: "image", Err: err},
						}
						cancel()
					}
					mu.Unlock()
					return
				}
				results[idx] = img

				mu.Lock()
				completed++
				if firstErr == nil && onDone != nil {
					onDone(completed, n)
				}
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	// cancel only fires on failure, so a cancelled context here means the
	// caller gave up; don't hand back a partially empty result set.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

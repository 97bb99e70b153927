// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"context"
	"sync"
)

// IngestBatch ingests the files using up to workers goroutines.
// Results are returned in the order of paths. A failed file does not stop
// the batch; its error is reported in the result's Err field.
func (s *IngestService) IngestBatch(ctx context.Context, paths []string, workers int) []IngestResult {
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]IngestResult, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for n := range jobs {
				results[n] = s.ingestOne(ctx, paths[n])
			}
		}()
	}

	for n := range paths {
		jobs <- n
	}
	close(jobs)
	wg.Wait()

	return results
}

func (s *IngestService) ingestOne(ctx context.Context, path string) IngestResult {
	if err := ctx.Err(); err != nil {
		return IngestResult{Path: path, Err: err}
	}
	result, err := s.IngestFile(ctx, path)
	if err != nil {
		s.logger.WarnContext(ctx, "ingest: failed", "path", path, "code", ErrorCode(err), "error", err)
		return IngestResult{Path: path, Err: err}
	}
	return *result
}

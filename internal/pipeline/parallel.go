package pipeline

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelMap splits rows into workers contiguous, near-equal partitions,
// applies transform to each partition concurrently, and reassembles the
// outputs by concatenation in partition order, so global row order and
// identity are preserved.
//
// transform must be pure: no side effects, no dependence on cross-partition
// state, and it must return one output row per input row if callers rely on
// positional identity. If any partition fails the whole call fails and no
// partial result is returned; retrying is pointless because a bad input row
// fails the same way every time.
func ParallelMap[T, R any](rows []T, workers int, transform func([]T) ([]R, error)) ([]R, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	parts := partition(rows, workers)
	results := make([][]R, len(parts))

	var g errgroup.Group
	for i, part := range parts {
		g.Go(func() error {
			out, err := transform(part)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	merged := make([]R, 0, total)
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}

// partition slices rows into n contiguous parts whose lengths differ by at
// most one, with the longer parts first. When n exceeds len(rows) the tail
// parts are empty. Rows are never reordered across a partition boundary.
func partition[T any](rows []T, n int) [][]T {
	parts := make([][]T, 0, n)
	base := len(rows) / n
	extra := len(rows) % n

	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		parts = append(parts, rows[start:start+size])
		start += size
	}
	return parts
}

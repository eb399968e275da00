package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelMap_PreservesOrderAndIdentity(t *testing.T) {
	rows := make([]int, 1000)
	for i := range rows {
		rows[i] = i
	}

	double := func(part []int) ([]int, error) {
		out := make([]int, 0, len(part))
		for _, v := range part {
			out = append(out, v*2)
		}
		return out, nil
	}

	// The worker count must never change the result.
	for _, workers := range []int{1, 2, 7, 64, 5000} {
		got, err := ParallelMap(rows, workers, double)
		require.NoError(t, err, "workers=%d", workers)
		require.Len(t, got, len(rows), "workers=%d", workers)
		for i, v := range got {
			require.Equal(t, i*2, v, "workers=%d row=%d", workers, i)
		}
	}
}

func TestParallelMap_DefaultWorkerCount(t *testing.T) {
	rows := []string{"a", "b", "c"}
	got, err := ParallelMap(rows, 0, func(part []string) ([]string, error) {
		return part, nil
	})
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestParallelMap_EmptyInput(t *testing.T) {
	got, err := ParallelMap(nil, 4, func(part []int) ([]int, error) {
		return part, nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParallelMap_FailureYieldsNoPartialResult(t *testing.T) {
	rows := make([]int, 100)
	for i := range rows {
		rows[i] = i
	}

	boom := errors.New("bad row")
	got, err := ParallelMap(rows, 4, func(part []int) ([]int, error) {
		for _, v := range part {
			if v == 73 {
				return nil, boom
			}
		}
		return part, nil
	})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name     string
		rows     int
		n        int
		expected []int
	}{
		{"even split", 8, 4, []int{2, 2, 2, 2}},
		{"remainder goes to leading parts", 10, 4, []int{3, 3, 2, 2}},
		{"more parts than rows", 2, 4, []int{1, 1, 0, 0}},
		{"single part", 5, 1, []int{5}},
		{"empty input", 0, 3, []int{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]int, tt.rows)
			for i := range rows {
				rows[i] = i
			}

			parts := partition(rows, tt.n)
			require.Len(t, parts, len(tt.expected))

			next := 0
			for i, part := range parts {
				assert.Len(t, part, tt.expected[i], "part %d", i)
				for _, v := range part {
					assert.Equal(t, next, v)
					next++
				}
			}
			assert.Equal(t, tt.rows, next, "every row assigned exactly once")
		})
	}
}

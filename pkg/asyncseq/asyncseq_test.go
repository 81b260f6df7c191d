package asyncseq_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pay-theory/dynamock/pkg/asyncseq"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEnumerator_StartsFromBeginningEachTime(t *testing.T) {
	ctx := context.Background()
	seq := asyncseq.FromSlice([]int{1, 2, 3})

	first := seq.Enumerator(ctx)
	ok, err := first.MoveNext(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, first.Current())

	second := seq.Enumerator(ctx)
	ok, err = second.MoveNext(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, second.Current(), "enumerators must not share a cursor")

	ok, _ = first.MoveNext(ctx)
	require.True(t, ok)
	assert.Equal(t, 2, first.Current())
}

func TestEnumerator_EndOfSequence(t *testing.T) {
	ctx := context.Background()
	e := asyncseq.FromSlice([]string{"a"}).Enumerator(ctx)

	assert.Equal(t, "", e.Current())

	ok, err := e.MoveNext(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	for range 2 {
		ok, err = e.MoveNext(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "", e.Current())
	}

	require.NoError(t, e.Close())
}

func TestSeq_SourceEvaluatedPerEnumerator(t *testing.T) {
	ctx := context.Background()
	calls := 0
	seq := asyncseq.New(func(context.Context) ([]int, error) {
		calls++
		return []int{calls}, nil
	})

	a, err := seq.ToSlice(ctx)
	require.NoError(t, err)
	b, err := seq.ToSlice(ctx)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, a)
	assert.Equal(t, []int{2}, b)
}

func TestSeq_CanceledContextStillCompletes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := asyncseq.FromSlice([]int{1, 2, 3}).ToSlice(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestSeq_SourceError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	seq := asyncseq.New(func(context.Context) ([]int, error) { return nil, boom })

	_, err := seq.ToSlice(ctx)
	assert.ErrorIs(t, err, boom)

	ok, err := seq.Enumerator(ctx).MoveNext(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestSeq_ForEach(t *testing.T) {
	ctx := context.Background()
	stop := errors.New("stop")
	var seen []int

	err := asyncseq.FromSlice([]int{1, 2, 3}).ForEach(ctx, func(n int) error {
		seen = append(seen, n)
		if n == 2 {
			return stop
		}
		return nil
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestSeq_AllBreakEarly(t *testing.T) {
	ctx := context.Background()
	var seen []int
	for n, err := range asyncseq.FromSlice([]int{1, 2, 3}).All(ctx) {
		require.NoError(t, err)
		seen = append(seen, n)
		if n == 1 {
			break
		}
	}
	assert.Equal(t, []int{1}, seen)
}

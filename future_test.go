package sdkgate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_Complete(t *testing.T) {
	fut := NewFuture[string]()
	go fut.Complete("done")

	result, err := fut.Get()
	require.NoError(t, err)
	assert.Equal(t, "done", result)

	// Repeated reads observe the same resolution.
	result, err = fut.Get()
	require.NoError(t, err)
	assert.Equal(t, "done", result)
}

func TestFuture_Error(t *testing.T) {
	fut := NewFuture[string]()
	fut.Error(NewError(KindServerFault, "boom"))

	_, err := fut.Get()
	require.Error(t, err)

	var nerr *Error
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, KindServerFault, nerr.Kind)
}

func TestFuture_FirstResolutionWins(t *testing.T) {
	fut := NewFuture[int]()
	fut.Complete(1)
	fut.Complete(2)
	fut.Error(NewError(KindUnknown, "too late"))

	result, err := fut.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, result)
}

func TestFuture_MultipleWaiters(t *testing.T) {
	fut := NewFuture[int]()

	var wg sync.WaitGroup
	results := make([]int, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = fut.Get()
		}(i)
	}

	fut.Complete(42)
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, 42, r)
	}
}

func TestFuture_GetContext_Abandoned(t *testing.T) {
	fut := NewFuture[string]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := fut.GetContext(ctx)
	require.Error(t, err)

	var nerr *Error
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, KindTimeout, nerr.Kind)

	// The future itself remains pending and resolvable.
	fut.Complete("late")
	result, err := fut.Get()
	require.NoError(t, err)
	assert.Equal(t, "late", result)
}

func TestFuture_Done(t *testing.T) {
	fut := NewFuture[string]()
	select {
	case <-fut.Done():
		t.Fatal("future resolved before completion")
	default:
	}

	fut.Complete("done")
	select {
	case <-fut.Done():
	case <-time.After(time.Second):
		t.Fatal("Done channel never closed")
	}
}

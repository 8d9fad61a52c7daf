package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect[T any](t *testing.T, ch <-chan Result[T]) []Result[T] {
	t.Helper()
	var results []Result[T]
	for r := range ch {
		results = append(results, r)
	}
	return results
}

func TestEmitSuccess(t *testing.T) {
	results := collect(t, emit(func() (int, error) { return 42, nil }))

	require.Len(t, results, 2)
	assert.Equal(t, Loading, results[0].Status)
	assert.Equal(t, Success, results[1].Status)
	assert.Equal(t, 42, results[1].Data)
	assert.NoError(t, results[1].Err)
}

func TestEmitError(t *testing.T) {
	boom := errors.New("boom")
	results := collect(t, emit(func() (int, error) { return 0, boom }))

	require.Len(t, results, 2)
	assert.Equal(t, Loading, results[0].Status)
	assert.Equal(t, Error, results[1].Status)
	assert.ErrorIs(t, results[1].Err, boom)
}

func TestEmitLoadingArrivesBeforeWorkCompletes(t *testing.T) {
	gate := make(chan struct{})
	ch := emit(func() (int, error) {
		<-gate
		return 1, nil
	})

	first := <-ch
	assert.Equal(t, Loading, first.Status)

	close(gate)
	second := <-ch
	assert.Equal(t, Success, second.Status)

	_, open := <-ch
	assert.False(t, open, "channel must close after the terminal result")
}

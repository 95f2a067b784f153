package memory

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGetRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.Add(ctx, bytes.NewReader([]byte("artifact bytes")))
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	data, err := s.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("artifact bytes"), data)
}

func TestIdenticalBytesDeduplicate(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref1, err := s.Add(ctx, bytes.NewReader([]byte("same")))
	require.NoError(t, err)
	ref2, err := s.Add(ctx, bytes.NewReader([]byte("same")))
	require.NoError(t, err)

	assert.Equal(t, ref1, ref2, "content addressing must converge on one reference")
	assert.Equal(t, 2, s.AddCalls(), "each add still reaches the store")
}

func TestGetUnknownRef(t *testing.T) {
	s := New()
	_, err := s.Get(context.Background(), "deadbeef")
	assert.Error(t, err)
}

func TestFailureInjection(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("store unreachable")

	s.FailAdd(boom)
	_, err := s.Add(ctx, bytes.NewReader([]byte("x")))
	assert.ErrorIs(t, err, boom)

	s.FailAdd(nil)
	ref, err := s.Add(ctx, bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	s.FailGet(boom)
	_, err = s.Get(ctx, ref)
	assert.ErrorIs(t, err, boom)
}

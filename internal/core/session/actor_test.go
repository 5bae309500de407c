package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActorRoundTrip(t *testing.T) {
	ctx := WithActor(context.Background(), "user-1")

	id, ok := ActorID(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-1", id)

	id, err := RequireActor(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestRequireActor_Missing(t *testing.T) {
	_, err := RequireActor(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	ctx := WithActor(context.Background(), "")
	_, ok := ActorID(ctx)
	assert.False(t, ok)
}

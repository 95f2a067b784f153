package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitStampsAndAppends(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)
	ctx := context.Background()

	err := pub.Emit(ctx, Event{CertificateID: "C100", Action: ActionIssue, Outcome: "ok"})
	require.NoError(t, err)
	err = pub.Emit(ctx, Event{CertificateID: "C100", Action: ActionVerify, Outcome: "failed", Detail: "not on ledger"})
	require.NoError(t, err)

	events, err := pub.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.NotEqual(t, uuid.Nil, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, ActionIssue, events[0].Action)
	assert.Equal(t, "not on ledger", events[1].Detail)
}

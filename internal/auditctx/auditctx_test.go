package auditctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithActorRoundTrip(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{UserID: "u1", OrganisationID: "o1", Email: "a@x.com"})

	actor, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "u1", actor.UserID)
	require.Equal(t, "o1", actor.OrganisationID)
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)

	//nolint:staticcheck // nil context is handled explicitly
	_, ok = FromContext(nil)
	require.False(t, ok)
}

package contexts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PerryRichardson/storefront/internal/objects"
)

func TestContextValues(t *testing.T) {
	t.Run("empty context", func(t *testing.T) {
		ctx := context.Background()

		_, ok := GetUser(ctx)
		require.False(t, ok)

		_, ok = GetTraceID(ctx)
		require.False(t, ok)

		_, ok = GetRequestID(ctx)
		require.False(t, ok)

		require.Empty(t, GetErrors(ctx))
	})

	t.Run("user round trip", func(t *testing.T) {
		user := &objects.User{ID: 7, Username: "nora"}
		ctx := WithUser(context.Background(), user)

		got, ok := GetUser(ctx)
		require.True(t, ok)
		require.Equal(t, user, got)
	})

	t.Run("trace and request ids", func(t *testing.T) {
		ctx := WithTraceID(context.Background(), "sf-abc")
		ctx = WithRequestID(ctx, "sfr-def")

		traceID, ok := GetTraceID(ctx)
		require.True(t, ok)
		require.Equal(t, "sf-abc", traceID)

		requestID, ok := GetRequestID(ctx)
		require.True(t, ok)
		require.Equal(t, "sfr-def", requestID)
	})

	t.Run("values survive derived contexts", func(t *testing.T) {
		ctx := WithTraceID(context.Background(), "sf-abc")
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		traceID, ok := GetTraceID(ctx)
		require.True(t, ok)
		require.Equal(t, "sf-abc", traceID)
	})

	t.Run("operation name", func(t *testing.T) {
		ctx := WithOperationName(context.Background(), "GET /api/stores")

		name, ok := GetOperationName(ctx)
		require.True(t, ok)
		require.Equal(t, "GET /api/stores", name)
	})
}

func TestAppendError(t *testing.T) {
	ctx := WithTraceID(context.Background(), "sf-abc")

	AppendError(ctx, errors.New("first"))
	AppendError(ctx, nil)
	AppendError(ctx, errors.New("second"))

	errs := GetErrors(ctx)
	require.Len(t, errs, 2)
	require.Equal(t, "first", errs[0].Error())
}

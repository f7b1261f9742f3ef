package tracing_test

import (
	"testing"

	"storefront/internal/pkg/tracing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaHeaders(t *testing.T) {
	t.Run("should set, overwrite and read headers", func(t *testing.T) {
		var headers []kafka.Header
		carrier := tracing.KafkaHeaders{Headers: &headers}

		carrier.Set("traceparent", "a")
		carrier.Set("baggage", "b")
		carrier.Set("traceparent", "c")

		assert.Equal(t, "c", carrier.Get("traceparent"))
		assert.Equal(t, "b", carrier.Get("baggage"))
		assert.Empty(t, carrier.Get("missing"))
		assert.ElementsMatch(t, []string{"traceparent", "baggage"}, carrier.Keys())
		assert.Len(t, headers, 2)
	})
}

func TestSetup(t *testing.T) {
	t.Run("should return a no-op shutdown without an endpoint", func(t *testing.T) {
		shutdown, err := tracing.Setup(t.Context(), "storefront", "")

		require.NoError(t, err)
		require.NoError(t, shutdown(t.Context()))
	})
}

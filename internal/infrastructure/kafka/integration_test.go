//go:build integration

package kafka

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuotakiwi/quote-service/internal/domain/port"
	pkgkafka "github.com/cuotakiwi/quote-service/pkg/kafka"
	"github.com/cuotakiwi/quote-service/pkg/testutil"
)

func TestCatalogUpdates_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	kc := testutil.NewKafkaContainer(ctx, t)
	cfg := pkgkafka.Config{Brokers: kc.Brokers, ConsumerGroup: "quote-service-test"}

	producer, err := pkgkafka.NewProducer(cfg)
	require.NoError(t, err)
	defer producer.Close()

	var (
		mu     sync.Mutex
		stored []port.RateProduct
	)
	handler := NewCatalogUpdateHandler(
		writerFunc(func(_ context.Context, p port.RateProduct, _ time.Time) error {
			mu.Lock()
			defer mu.Unlock()
			stored = append(stored, p)
			return nil
		}),
		reloaderFunc(func(context.Context) error { return nil }),
		discardLogger(),
	)

	consumer, err := pkgkafka.NewConsumer(cfg, "quote.rate-products", handler.Handle, discardLogger())
	require.NoError(t, err)
	defer consumer.Close()

	consumeCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() { _ = consumer.Start(consumeCtx) }()

	require.NoError(t, producer.Publish(ctx, "quote.rate-products", pkgkafka.Message{
		Key:   []byte("CUZ-003"),
		Value: []byte(`{"branch_id":"CUZ-003","surcharge_rate":"0.18","insurance_loading":"0.0005"}`),
	}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(stored) == 1 && stored[0].BranchID == "CUZ-003"
	}, time.Minute, 200*time.Millisecond)
}

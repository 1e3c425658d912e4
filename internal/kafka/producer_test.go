package kafka

import (
	"context"
	"testing"
)

func TestProducer_CloseThenCancel(t *testing.T) {
	// Close and a context cancel race for the inbox shutdown; neither
	// ordering may panic or hang the flush loop.
	for i := 0; i < 500; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		p := NewProducer([]string{"localhost:9092"}, "test.topic", 8)
		p.Start(ctx)
		p.Close()
		cancel()
		p.WaitClosed()
	}
}

func TestProducer_CancelThenClose(t *testing.T) {
	for i := 0; i < 500; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		p := NewProducer([]string{"localhost:9092"}, "test.topic", 8)
		p.Start(ctx)
		cancel()
		p.Close()
		p.WaitClosed()
	}
}

func TestProducer_CloseIsIdempotent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := NewProducer([]string{"localhost:9092"}, "test.topic", 8)
	p.Start(ctx)
	p.Close()
	p.Close()
	p.WaitClosed()
}

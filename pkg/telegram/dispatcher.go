package telegram

import (
	"context"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"sync"
)

const queueSize = 16

type Dispatcher[T any] interface {
	Dispatch(ctx context.Context, source <-chan T) error
}

// dispatcher fans messages out to a fixed set of workers. A message always
// goes to the worker picked by its partition key, so messages sharing a key
// are handled one at a time in arrival order.
type dispatcher[T any] struct {
	handler    func(ctx context.Context, msg T) error
	partition  func(msg T) int64
	numWorkers int
}

func (d dispatcher[T]) Dispatch(ctx context.Context, source <-chan T) error {
	queues := make([]chan T, d.numWorkers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan T, queueSize)
		wg.Add(1)
		go func(queue <-chan T) {
			defer wg.Done()
			for msg := range queue {
				d.handle(ctx, msg)
			}
		}(queues[i])
	}

	stop := func() {
		for _, queue := range queues {
			close(queue)
		}
		wg.Wait()
	}

	for {
		select {
		case msg, ok := <-source:
			if !ok {
				stop()
				return nil
			}

			select {
			case queues[d.worker(msg)] <- msg:
			case <-ctx.Done():
				stop()
				return ctx.Err()
			}
		case <-ctx.Done():
			stop()
			return ctx.Err()
		}
	}
}

func (d dispatcher[T]) worker(msg T) int {
	return int(uint64(d.partition(msg)) % uint64(d.numWorkers))
}

func (d dispatcher[T]) handle(ctx context.Context, msg T) {
	logger := zerolog.Ctx(ctx).With().Str("request_id", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)

	if err := d.handler(ctx, msg); err != nil {
		logger.Error().Err(err).Msg("failed to handle message")
	}
}

func NewDispatcher[T any](
	numWorkers int,
	partition func(msg T) int64,
	handler func(ctx context.Context, msg T) error,
) Dispatcher[T] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &dispatcher[T]{
		handler:    handler,
		partition:  partition,
		numWorkers: numWorkers,
	}
}

package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTopic  string = "assetqc.events"
	defaultSource string = "brandworks.asset-qc"
	closeTimeout         = 5 * time.Second
)

// ErrProducerClosed is returned by Write once Close has been called.
var ErrProducerClosed = errors.New("event producer is closed")

// Writer is the interface to be implemented by the underlying writer.
type Writer interface {
	Write(ctx context.Context, topic string, e cloudevents.Event) error
	Close(ctx context.Context) error
}

// EventProducer queues events in memory and hands them to the Writer from a single
// goroutine, so callers never wait on the broker.
type EventProducer struct {
	buffer    *buffer
	notifyCh  chan struct{}
	doneCh    chan struct{}
	stoppedCh chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
	writer    Writer
	topic     string
	source    string
}

func NewEventProducer(w Writer, opts ...ProducerOptions) *EventProducer {
	ep := &EventProducer{
		buffer:    newBuffer(),
		notifyCh:  make(chan struct{}, 1),
		doneCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
		writer:    w,
		topic:     defaultTopic,
		source:    defaultSource,
	}

	for _, o := range opts {
		o(ep)
	}

	go ep.run()
	return ep
}

// Write queues body as an event of the given kind.
func (ep *EventProducer) Write(ctx context.Context, kind string, body io.Reader) error {
	d, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	ep.mu.RLock()
	defer ep.mu.RUnlock()
	if ep.closed {
		return ErrProducerClosed
	}
	ep.buffer.PushBack(&message{Kind: kind, Data: d})

	select {
	case ep.notifyCh <- struct{}{}:
	default:
	}

	return nil
}

// Close flushes pending events and closes the writer.
func (ep *EventProducer) Close() error {
	var err error
	ep.closeOnce.Do(func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()

		ep.mu.Lock()
		ep.closed = true
		close(ep.doneCh)
		ep.mu.Unlock()

		select {
		case <-ep.stoppedCh:
		case <-closeCtx.Done():
			err = fmt.Errorf("draining events: %w", closeCtx.Err())
			zap.S().Named("event_producer").Errorw("event producer closed before draining", "error", err, "pending", ep.buffer.Size())
			return
		}

		if err = ep.writer.Close(closeCtx); err != nil {
			zap.S().Named("event_producer").Errorf("event producer closed with error: %s", err)
			return
		}

		zap.S().Named("event_producer").Info("event producer closed")
	})
	return err
}

func (ep *EventProducer) run() {
	defer close(ep.stoppedCh)
	for {
		select {
		case <-ep.notifyCh:
			ep.flush()
		case <-ep.doneCh:
			ep.flush()
			return
		}
	}
}

func (ep *EventProducer) flush() {
	for msg := ep.buffer.Pop(); msg != nil; msg = ep.buffer.Pop() {
		e := cloudevents.NewEvent()
		e.SetID(uuid.NewString())
		e.SetSource(ep.source)
		e.SetType(msg.Kind)
		e.SetTime(time.Now())
		if err := e.SetData(*cloudevents.StringOfApplicationJSON(), msg.Data); err != nil {
			zap.S().Named("event_producer").Errorw("failed to set event data", "error", err, "type", msg.Kind)
			continue
		}

		if err := ep.writer.Write(context.TODO(), ep.topic, e); err != nil {
			zap.S().Named("event_producer").Errorw("failed to send message", "error", err, "type", msg.Kind, "topic", ep.topic)
		}
	}
}

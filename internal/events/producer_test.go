package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("producer", Ordered, func() {
	Context("write", func() {
		It("writes successfully", func() {
			w := newTestWriter()
			p := NewEventProducer(w, WithOutputTopic("qc"))

			payload, err := json.Marshal(AssetQCEvent{AssetID: 7, Decision: "approved", LinkingActive: true})
			Expect(err).To(BeNil())

			Expect(p.Write(context.TODO(), AssetReviewedKind, bytes.NewReader(payload))).To(BeNil())
			Expect(p.Write(context.TODO(), AssetSubmittedKind, bytes.NewReader([]byte(`{"asset_id":8}`)))).To(BeNil())

			Eventually(w.Len).Should(Equal(2))

			events := w.Events()
			Expect(events[0].Type()).To(Equal(AssetReviewedKind))
			Expect(events[0].Source()).To(Equal(defaultSource))
			Expect(events[1].Type()).To(Equal(AssetSubmittedKind))
			Expect(w.Topics()).To(ConsistOf("qc", "qc"))

			var got AssetQCEvent
			Expect(json.Unmarshal(events[0].Data(), &got)).To(BeNil())
			Expect(got.AssetID).To(BeEquivalentTo(7))
			Expect(got.LinkingActive).To(BeTrue())

			Expect(p.Close()).To(BeNil())
			Expect(w.Closed()).To(BeTrue())
		})

		It("flushes pending events on close", func() {
			w := newTestWriter()
			p := NewEventProducer(w)

			for i := 0; i < 50; i++ {
				Expect(p.Write(context.TODO(), AssetReviewedKind, bytes.NewReader([]byte(`{}`)))).To(BeNil())
			}
			Expect(p.Close()).To(BeNil())
			Expect(w.Len()).To(Equal(50))
		})

		It("keeps going when the writer fails", func() {
			w := newTestWriter()
			w.failOn = AssetSubmittedKind
			p := NewEventProducer(w)

			Expect(p.Write(context.TODO(), AssetSubmittedKind, bytes.NewReader([]byte(`{}`)))).To(BeNil())
			Expect(p.Write(context.TODO(), AssetReviewedKind, bytes.NewReader([]byte(`{}`)))).To(BeNil())

			Eventually(w.Len).Should(Equal(1))
			Expect(p.Close()).To(BeNil())
			Expect(p.Close()).To(BeNil())
		})

		It("refuses events after close", func() {
			w := newTestWriter()
			p := NewEventProducer(w)

			Expect(p.Write(context.TODO(), AssetReviewedKind, bytes.NewReader([]byte(`{}`)))).To(BeNil())
			Expect(p.Close()).To(BeNil())

			err := p.Write(context.TODO(), AssetSubmittedKind, bytes.NewReader([]byte(`{}`)))
			Expect(errors.Is(err, ErrProducerClosed)).To(BeTrue())
			Consistently(w.Len).Should(Equal(1))
			Expect(w.Events()[0].Type()).To(Equal(AssetReviewedKind))
		})

		It("reports a writer that fails to close", func() {
			w := newTestWriter()
			w.closeErr = errors.New("broker gone")
			p := NewEventProducer(w)

			Expect(p.Close()).To(MatchError("broker gone"))
		})
	})
})

type testwriter struct {
	mu       sync.Mutex
	events   []cloudevents.Event
	topics   []string
	closed   bool
	failOn   string
	closeErr error
}

func newTestWriter() *testwriter {
	return &testwriter{events: []cloudevents.Event{}}
}

func (t *testwriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failOn != "" && e.Type() == t.failOn {
		return errors.New("broker unavailable")
	}
	t.events = append(t.events, e)
	t.topics = append(t.topics, topic)
	return nil
}

func (t *testwriter) Close(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return t.closeErr
}

func (t *testwriter) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}

func (t *testwriter) Events() []cloudevents.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]cloudevents.Event{}, t.events...)
}

func (t *testwriter) Topics() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string{}, t.topics...)
}

func (t *testwriter) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

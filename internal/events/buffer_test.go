package events

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("buffer", Ordered, func() {
	Context("buffer", func() {
		It("keeps insertion order", func() {
			buffer := newBuffer()

			buffer.PushBack(&message{Kind: AssetReviewedKind, Data: []byte("msg1")})
			Expect(buffer.Size()).To(Equal(1))
			Expect(buffer.head).To(Equal(buffer.tail))

			buffer.PushBack(&message{Kind: AssetReviewedKind, Data: []byte("msg2")})
			buffer.PushBack(&message{Kind: AssetSubmittedKind, Data: []byte("msg3")})
			Expect(buffer.Size()).To(Equal(3))
			Expect(buffer.head.Data).To(Equal([]byte("msg1")))
			Expect(buffer.tail.Data).To(Equal([]byte("msg3")))
		})

		It("pops until empty", func() {
			buffer := newBuffer()
			buffer.PushBack(&message{Kind: AssetReviewedKind, Data: []byte("msg1")})
			buffer.PushBack(&message{Kind: AssetReviewedKind, Data: []byte("msg2")})

			m := buffer.Pop()
			Expect(m).NotTo(BeNil())
			Expect(m.Data).To(Equal([]byte("msg1")))
			Expect(buffer.Size()).To(Equal(1))

			m = buffer.Pop()
			Expect(m.Data).To(Equal([]byte("msg2")))
			Expect(buffer.Size()).To(Equal(0))
			Expect(buffer.head).To(BeNil())
			Expect(buffer.tail).To(BeNil())

			Expect(buffer.Pop()).To(BeNil())
			Expect(buffer.Size()).To(Equal(0))
		})

		It("can be refilled after being emptied", func() {
			buffer := newBuffer()
			buffer.PushBack(&message{Data: []byte("a")})
			Expect(buffer.Pop()).NotTo(BeNil())

			buffer.PushBack(&message{Data: []byte("b")})
			Expect(buffer.Size()).To(Equal(1))
			Expect(buffer.Pop().Data).To(Equal([]byte("b")))
		})
	})
})

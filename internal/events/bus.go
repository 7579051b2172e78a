// Package events carries domain events between the API and background consumers.
package events

import (
	EventBus "github.com/asaskevich/EventBus"

	"github.com/polestar/storefront/internal/domain"
)

const TopicInquiryCreated = "inquiry:created"

// Bus is a typed facade over an asynchronous event bus.
type Bus struct {
	bus EventBus.Bus
}

func NewBus() *Bus {
	return &Bus{bus: EventBus.New()}
}

// PublishInquiryCreated announces a newly stored inquiry.
func (b *Bus) PublishInquiryCreated(inq domain.Inquiry) {
	b.bus.Publish(TopicInquiryCreated, inq)
}

// OnInquiryCreated registers fn; handlers run asynchronously, one at a time.
func (b *Bus) OnInquiryCreated(fn func(domain.Inquiry)) error {
	return b.bus.SubscribeAsync(TopicInquiryCreated, fn, true)
}

// Wait blocks until every asynchronous handler has returned.
func (b *Bus) Wait() {
	b.bus.WaitAsync()
}

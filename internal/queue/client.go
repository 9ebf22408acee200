package queue

import "context"

// Client sends messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Delivery is one received message awaiting acknowledgement.
type Delivery struct {
	ID            string
	Body          []byte
	ReceiptHandle string
	ReceiveCount  int
}

// Consumer pulls messages from a queue backend. Receive blocks for at most
// the backend's wait time and may return an empty slice.
type Consumer interface {
	Receive(ctx context.Context, max int) ([]Delivery, error)
	Ack(ctx context.Context, d Delivery) error
}

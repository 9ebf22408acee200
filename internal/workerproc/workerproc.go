// Package workerproc decodes generation queue messages and hands them to the
// generation processor. It is shared by the long-running worker, the Lambda
// worker and the in-process memory queue consumer.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"cameo-backend/internal/generations"
	"cameo-backend/internal/queue"
)

// Processor renders one generation.
type Processor interface {
	ProcessGeneration(ctx context.Context, generationID string) error
}

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrUnsupportedVersion indicates a payload written by a newer producer.
type ErrUnsupportedVersion struct {
	Meta    MessageMeta
	Version int
}

func (e ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported message version %d", e.Version)
}

// ErrMissingGenerationID indicates a message missing the generation id.
type ErrMissingGenerationID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingGenerationID) Error() string { return "missing generation id" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	GenerationID string
	RequestID    string
	Err          error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process generation"
	}
	return "process generation: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if msg.Version > queue.MessageVersion {
		return msg, meta, ErrUnsupportedVersion{Meta: meta, Version: msg.Version}
	}
	if strings.TrimSpace(msg.GenerationID) == "" {
		return msg, meta, ErrMissingGenerationID{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

// Unrecoverable reports whether retrying the message can never succeed.
func Unrecoverable(err error) bool {
	var (
		empty   ErrEmptyBody
		decode  ErrDecode
		version ErrUnsupportedVersion
		missing ErrMissingGenerationID
	)
	switch {
	case errors.As(err, &empty), errors.As(err, &decode), errors.As(err, &version), errors.As(err, &missing):
		return true
	case errors.Is(err, generations.ErrNotFound):
		return true
	default:
		return false
	}
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.Message, bool) {
	if ctx == nil {
		return queue.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.Message)
	return msg, ok
}

// HandleMessage parses, validates, and processes a message payload.
func HandleMessage(ctx context.Context, processor Processor, body string) error {
	if processor == nil {
		return errors.New("generation processor not configured")
	}

	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(msg.GenerationID) == "" {
		return ErrMissingGenerationID{Meta: ComputeMeta(body), RequestID: msg.RequestID}
	}

	ctxWithRequest := generations.WithRequestID(ctx, msg.RequestID)
	if err := processor.ProcessGeneration(ctxWithRequest, msg.GenerationID); err != nil {
		return ErrProcess{GenerationID: msg.GenerationID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}

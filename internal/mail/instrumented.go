package mail

import (
	"context"
	"errors"
)

// Instrumented reports each send outcome to a metrics callback without the
// mail package knowing about prometheus.
type Instrumented struct {
	inner   Mailer
	observe func(result string)
}

func NewInstrumented(inner Mailer, observe func(result string)) *Instrumented {
	return &Instrumented{
		inner:   inner,
		observe: observe,
	}
}

func (m *Instrumented) Send(ctx context.Context, msg Message) error {
	err := m.inner.Send(ctx, msg)

	if m.observe != nil {
		switch {
		case err == nil:
			m.observe("ok")
		case errors.Is(err, ErrCircuitOpen):
			m.observe("circuit_open")
		default:
			m.observe("error")
		}
	}

	return err
}

package mail

import "context"

// Message is the full outbound payload. The backend never retries a failed
// send; delivery is fire-and-forget toward the provider.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

package ports

import "context"

// Mail is a plain-text message handed to the transport.
type Mail struct {
	From    string
	To      string
	Subject string
	Text    string
}

// Mailer is the outbound e-mail boundary. Delivery semantics beyond a
// synchronous error are out of scope here.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

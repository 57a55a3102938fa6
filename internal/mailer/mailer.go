package mailer

import "context"

// Message is one outbound newsletter email.
type Message struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
}

// Mailer abstracts delivery to an external mail service.
// Mocking this interface in tests gives full control over provider behaviour
// without making real HTTP calls.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

package publishers

import "context"

// Publisher sends probe reports to a downstream sink (SQS, HTTP, etc).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, report Report) error
}

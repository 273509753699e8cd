package error_notificator

import "context"

type Notificator interface {
	// Notify reports a failure to whoever watches the service.
	Notify(ctx context.Context, err error, details string) error
}

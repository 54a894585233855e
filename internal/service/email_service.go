package service

import "context"

// EmailService dispatches mail fire-and-forget: implementations return
// immediately and deliver in the background. Failures are logged, never
// surfaced to the caller.
type EmailService interface {
	SendConfirmation(ctx context.Context, to, username, token string)
	SendPasswordReset(ctx context.Context, to, token string)
}

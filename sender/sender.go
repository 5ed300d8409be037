package sender

import (
	"context"
	"fmt"
)

// Sender delivers a verification code to an identity. Implementations must
// honor ctx cancellation: the engine bounds every dispatch with a timeout.
// Failures need not be distinguishable from each other, only from success.
type Sender interface {
	Send(ctx context.Context, identity, code string) error
}

const messageSubject = "Your Mission Control Verification Code"

func messageBody(code string) string {
	return fmt.Sprintf(`Mission Control Login

Your verification code is: %s

This code will expire in 10 minutes.

If you didn't request this code, please ignore this email.

---
OpenClaw Mission Control`, code)
}

package sender

import (
	"context"
	"log/slog"
)

// Log writes verification codes to the process log instead of delivering
// them. Development and diagnostics only: anyone who can read the log can
// read the codes. Never wire it where a real delivery channel is available.
type Log struct {
	logger *slog.Logger
}

// NewLog describes the newlog operation and its observable behavior.
//
// NewLog does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Send describes the send operation and its observable behavior.
//
// Send does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Log) Send(ctx context.Context, identity, code string) error {
	s.logger.InfoContext(ctx, "verification code issued",
		"identity", identity,
		"code", code,
	)
	return nil
}

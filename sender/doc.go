// Package sender defines the outbound delivery boundary for verification
// codes and provides three implementations: SendGrid over HTTP, plain SMTP,
// and a development-only log writer. The engine treats all of them the same
// way: a non-nil error means delivery failed, and the caller must restart
// the login flow.
package sender

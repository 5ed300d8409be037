// Package authgate implements a single-factor, email-delivered one-time-code
// authentication gateway: a caller proves control of a whitelisted email
// address by receiving a short numeric code and submitting it back within a
// bounded window, after which a store-backed session grants access to a
// downstream gateway resource.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. All cross-request coordination is delegated to the Redis
// store's atomic primitives; the engine holds no in-process mutable state and
// never caches a store read past a single request.
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Engine], [Builder], [Config],
// the error taxonomy, and result value types. Code generation, digesting, and
// identifier randomness live under internal/. Outbound delivery is behind the
// sender.Sender interface; caller-held state tokens are handled by the
// clientstate subpackage; HTTP presentation lives in internal/web and is not
// part of this package's contract.
//
// # What this package must NOT do
//
//   - Store or log a raw verification code once it has been dispatched; only
//     SHA-256 digests are kept at rest.
//   - Distinguish a wrong code from an expired or never-issued one in any
//     externally observable way.
//   - Reveal through errors whether an identity exists or was ever issued a
//     code.
package authgate

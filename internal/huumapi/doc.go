// Package huumapi implements the client for the Huum sauna cloud API.
//
// # Overview
//
// The vendor API is HTTP over TLS with a legacy quirk: response bodies are
// JSONP-framed, wrapping the JSON payload in parentheses optionally followed
// by a semicolon. DecodeJSONP strips that envelope before any parsing.
//
// Authentication and device calls are split deliberately:
//
//   - Authenticator performs first contact. It walks an ordered list of
//     candidate base addresses (primary, then legacy fallback) because the
//     vendor has moved hosts before. It is never retried; endpoint absence,
//     undecodable bodies, and connection failures advance to the next
//     candidate instead.
//   - Client holds the session token from a successful login and a single
//     base address. Its five calls (Status, StartSession, StopSession,
//     ValidateSession, Statistics) run under RetryPolicy: three attempts
//     with exponential backoff for transient failures only.
//
// # Error taxonomy
//
// AuthError means the server rejected the credentials; it is terminal.
// APIError means the server answered with an explicit failure, a malformed
// success payload, or a transient failure that survived the retry budget.
// DecodeError carries the HTTP status and a bounded preview of the offending
// body. DeviceOfflineError and SessionActiveError are semantic precondition
// failures raised by callers before issuing control calls.
//
// ValidateSession is the one exception to the taxonomy: callers treat
// validity as a boolean gate, so every failure mode collapses to false.
//
// # Normalization
//
// Raw per-device status fields are mapped to the canonical SaunaDevice model
// by a fixed precedence table over the vendor status codes (230 offline,
// 231 heating, 232 idle, 233 locked, 400 emergency-stopped). Without a code,
// an endDate in the future marks an active session and the oddly named
// `door` flag supplies reachability. Numeric wire fields arrive as numbers
// or numeric strings interchangeably; both are accepted.
package huumapi

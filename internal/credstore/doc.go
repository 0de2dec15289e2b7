// Package credstore persists the bearer token across client runs.
//
// Two storage scopes exist: a durable file-backed scope that survives
// restarts ("remember me") and a volatile in-process scope that lives
// only as long as the client instance. The token is held in exactly one
// scope at a time. Storage failures degrade silently to "no token
// found" rather than failing the client.
package credstore

// Package client implements the HTTP client for the MCP server API.
//
// It covers the authentication endpoints (token, register, me) and the
// API-key collection, attaching the current bearer token to every
// authenticated request. Responses with non-2xx status are mapped onto
// the domain error taxonomy; a JSON body with a "detail" field supplies
// the user-facing message.
package client

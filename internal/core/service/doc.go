// Package service implements the client-side session and API-key
// state machine: inactivity monitoring, the key list view model, and
// the login/registration/logout flow that ties them to the HTTP client
// and the credential store.
package service

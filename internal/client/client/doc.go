// Package client talks to the hosted backend that owns the dashboard data.
//
// # Overview
//
// The package provides:
//  1. Transport-agnostic contracts: Client (liveness, lifecycle), Records[T]
//     (list/get/create/update/delete on one collection) and AuthClient
//     (password sign-in, sign-up, sign-out, token refresh, OAuth links).
//  2. A concrete HTTP implementation (RESTClient + Collection[T]) for
//     PostgREST/GoTrue style backends. It sends the project key as "apikey",
//     injects the caller's bearer token through Credentials, refreshes an
//     expired token once and retries, and maps HTTP failures to sentinels.
//
// # Error Handling
//
// Callers match failures with errors.Is: ErrUnavailable (network, timeouts,
// 502/503/504), ErrUnauthorized (401/403), ErrNotFound (404). Every non-2xx
// response is also a *StatusError carrying the status code and the backend's
// message.
//
// All operations accept context.Context and honor cancellation.
package client

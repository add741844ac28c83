// Package api is the request pipeline shared by every Mailtrap resource.
//
// A resource describes a call as a [Command]: an HTTP verb, an absolute URL,
// an optional JSON body and the expected result shape. [Client.Execute]
// serializes the body, attaches the bearer token, sends the request and
// either decodes the result or translates the failure into an
// [apierrors.APIError] or [apierrors.NetworkError].
//
// # Client Creation
//
//   - [NewClient]: Struct-based configuration.
//   - [New]: Functional options pattern.
//
// Both require an API token. Base URLs are owned by the resources, not the
// client, so one Client serves the management, sending, bulk and sandbox
// hosts.
//
// # Retry Behavior
//
// Requests are retried through a [rehttp] transport. By default up to 3
// retries are made for these status codes:
//
//   - 408 Request Timeout
//   - 429 Too Many Requests
//   - 500 Internal Server Error
//   - 502 Bad Gateway
//   - 503 Service Unavailable
//   - 504 Gateway Timeout
//
// Only idempotent methods are retried on server errors and transport
// failures. POST and PATCH requests are retried on 429 alone. Delays grow
// exponentially from [Config.RetryDelay] and honour Retry-After.
//
// # Thread Safety
//
// [Client] is safe for concurrent use.
package api

// Package middleware holds the echo middleware installed by the router:
// request ids, the request-scoped logger, Clerk authentication, New Relic
// tracing, per-IP rate limiting and the global error handler.
package middleware

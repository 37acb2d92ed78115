// Package middleware stores the global middleware of the forms API.
//
// These intercept requests to handle cross-cutting concerns such as CORS,
// request ids, request logging, New Relic tracing and panic recovery, and
// turn every error into the {success, message} response shape.
package middleware

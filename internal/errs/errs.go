// Package errs defines the error types the HTTP layer knows how to render.
//
// Every failure a request can end in is an *HTTPError of one of four kinds:
// validation (400, user-facing), configuration (500), delivery (502) and
// unexpected (500). Only validation messages carry specifics; the other kinds
// keep their detail in the wrapped cause, which is logged and never serialized.
package errs

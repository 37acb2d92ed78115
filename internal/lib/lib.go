// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains shared utilities, the background dispatcher used for
// best-effort sends, and the email composer and delivery client (Resend).
package lib

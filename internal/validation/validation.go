// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce presence rules defined in
// struct tags and turns every failure into a 400 *errs.HTTPError whose
// message the visitor can act on.
package validation

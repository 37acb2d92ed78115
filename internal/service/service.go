// Package service contains the business logic.
//
// It sits between the handler layer and the email provider. It receives
// validated submissions from the handlers, checks that the deployment can
// deliver them, composes the emails and sends them.
package service

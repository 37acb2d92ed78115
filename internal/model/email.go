package model

import "encoding/base64"

// Attachment is a file sent along with an email.
type Attachment struct {
	Filename string
	Content  []byte
}

// Base64Content is the attachment encoded the way the provider expects it.
func (a Attachment) Base64Content() string {
	return base64.StdEncoding.EncodeToString(a.Content)
}

// OutboundEmail is a fully rendered message ready for the provider.
// It is built once by the composer and consumed once by the delivery client.
type OutboundEmail struct {
	From        string
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// DeliveryResult is the provider's verdict on one send.
//
// ErrorBody holds the provider's response text on failure. It is for logs
// only and must never reach an API client.
type DeliveryResult struct {
	Succeeded  bool
	StatusCode int
	ErrorBody  string
}

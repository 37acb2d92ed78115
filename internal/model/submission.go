// Package model holds the request-scoped values that flow through a
// submission: what the visitor sent, the emails built from it and the
// provider's verdict on each send. Nothing here is ever persisted.
package model

import "io"

// MaxResumeSizeBytes is the largest résumé accepted (5 MiB, inclusive).
const MaxResumeSizeBytes int64 = 5 * 1024 * 1024

// ResumeMimeType is the only résumé content type accepted.
const ResumeMimeType = "application/pdf"

// ResumeFile is an uploaded résumé as declared by the client.
//
// Content is opened lazily so the bytes are only read once the declared
// type and size have been validated.
type ResumeFile struct {
	Name      string
	MimeType  string
	SizeBytes int64

	open func() (io.ReadCloser, error)
}

// NewResumeFile describes an upload whose content is produced by open.
func NewResumeFile(name, mimeType string, sizeBytes int64, open func() (io.ReadCloser, error)) *ResumeFile {
	return &ResumeFile{
		Name:      name,
		MimeType:  mimeType,
		SizeBytes: sizeBytes,
		open:      open,
	}
}

// ReadAll returns the file content.
func (f *ResumeFile) ReadAll() ([]byte, error) {
	if f.open == nil {
		return nil, nil
	}

	rc, err := f.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// SizeKiB is the declared size in KiB.
func (f *ResumeFile) SizeKiB() float64 {
	return float64(f.SizeBytes) / 1024
}

// ApplicationSubmission is one job application.
//
// The validate tags express presence only; type and size rules live in the
// validation package because their order matters.
type ApplicationSubmission struct {
	FullName     string      `validate:"required"`
	Email        string      `validate:"required"`
	Phone        string      `validate:"required"`
	CoverMessage string      `validate:"-"`
	Resume       *ResumeFile `validate:"required"`
}

// ContactSubmission is one general contact-form message.
type ContactSubmission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

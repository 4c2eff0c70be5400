package interview

import (
	"strings"

	"prepcoach/internal/apperr"
)

const (
	MaxResumeBytes = 5 * 1024 * 1024

	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// MockResumeText stands in for text extraction, which is not performed.
const MockResumeText = "John Smith\nSoftware Developer\nEmail: john.smith@email.com\nExperience: React, Node.js, MongoDB, Redux"

// Placeholder identity used when resume analysis is unavailable.
const (
	PlaceholderName  = "John Smith"
	PlaceholderEmail = "john.smith@email.com"
)

var (
	ErrInvalidFileType = apperr.Validation("invalid_file_type", "Please upload a PDF or DOCX file only.")
	ErrFileTooLarge    = apperr.Validation("file_too_large", "File size must be less than 5MB.")
	ErrEmptyFile       = apperr.Validation("empty_file", "The uploaded file is empty.")
)

type ResumeFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

func (f ResumeFile) size() int64 {
	if n := int64(len(f.Data)); n > f.Size {
		return n
	}
	return f.Size
}

// ValidateResume checks the declared type and size of an upload.
func ValidateResume(f ResumeFile) error {
	ct := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct != ContentTypePDF && ct != ContentTypeDOCX {
		return ErrInvalidFileType
	}
	size := f.size()
	if size > MaxResumeBytes {
		return ErrFileTooLarge
	}
	if size == 0 || len(f.Data) == 0 {
		return ErrEmptyFile
	}
	return nil
}

package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// maxSearchTermLength bounds search input accepted from remote clients.
const maxSearchTermLength = 256

// ValidateSearchTerm validates a search term received from an untrusted client.
//
// The rules are deliberately loose because node ids are free text:
//   - No more than 256 characters
//   - No control characters or null bytes
//
// Empty terms are allowed; they simply match nothing.
func ValidateSearchTerm(term string) error {
	if len(term) > maxSearchTermLength {
		return New(ErrCodeInvalidInput, "search term too long (max %d characters)", maxSearchTermLength)
	}
	for _, r := range term {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "search term contains invalid control characters")
		}
	}
	return nil
}

// ValidateSessionID checks that id is a canonical UUID as issued by the
// session package.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid session id")
	}
	return nil
}

// ValidateSourceURI performs cheap sanity checks on a dataset location before
// a source is opened for it.
func ValidateSourceURI(uri string) error {
	if strings.TrimSpace(uri) == "" {
		return New(ErrCodeInvalidURI, "dataset location cannot be empty")
	}
	if strings.ContainsRune(uri, '\x00') {
		return New(ErrCodeInvalidURI, "dataset location contains a null byte")
	}
	return nil
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so callers cannot enumerate usernames.
	ErrInvalidCredentials = errors.New("wrong username or password")
	ErrBadToken           = errors.New("bad token")
	ErrForbidden          = errors.New("forbidden")

	ErrVendorNotFound       = errors.New("vendor not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrRequestNotFound      = errors.New("request not found")

	ErrUsernameTaken = errors.New("username already exists")
	ErrGalleryFull   = errors.New("no room left for gallery images")

	// ErrUploadRejected is wrapped with the concrete reason (bad file type,
	// size or field limit exceeded) by the multipart parser.
	ErrUploadRejected = errors.New("upload rejected")
)

// PartialCommitError reports a lifecycle protocol that failed after at least
// one step had already committed. There is no automatic compensation: the
// error names the protocol and the failed step so the damage can be repaired
// out of band.
type PartialCommitError struct {
	Protocol string
	Step     string
	Err      error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("%s: step %s failed after partial commit: %v", e.Protocol, e.Step, e.Err)
}

func (e *PartialCommitError) Unwrap() error { return e.Err }

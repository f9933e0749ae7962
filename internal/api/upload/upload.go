// Package upload parses single-file multipart requests against the
// configured limits. Every limit is enforced while the body streams, so an
// oversized request is rejected without buffering it whole.
package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
	"github.com/mercatino/vendor-api/internal/pkg/config"
)

// Reason labels attached to rejections, used as the metrics dimension.
const (
	ReasonFileType       = "file_type"
	ReasonFileSize       = "file_size"
	ReasonFieldName      = "field_name"
	ReasonFieldValue     = "field_value"
	ReasonFieldCount     = "field_count"
	ReasonFileCount      = "file_count"
	ReasonHeaderPairs    = "header_pairs"
	ReasonUnexpectedFile = "unexpected_file"
	ReasonNoFile         = "no_file"
	ReasonMalformed      = "malformed"
)

// RejectionError wraps domain.ErrUploadRejected with the concrete reason.
type RejectionError struct {
	Reason string
	Detail string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%v: %s: %s", domain.ErrUploadRejected, e.Reason, e.Detail)
}

func (e *RejectionError) Unwrap() error { return domain.ErrUploadRejected }

func reject(reason, format string, args ...any) error {
	return &RejectionError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Reason extracts the rejection reason label from an error, or "" when the
// error is not an upload rejection.
func Reason(err error) string {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Reason
	}
	return ""
}

// allowedExtensions is the image allow-list. Both the extension and the
// declared content type must match.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
}

const allowedContentType = "image/jpeg"

// Parser validates multipart bodies against the configured limits.
type Parser struct {
	limits config.UploadConfig
}

func NewParser(limits config.UploadConfig) *Parser {
	return &Parser{limits: limits}
}

// Single reads the request body expecting exactly one file part under the
// given field name. Extra files, unexpected field names, and any exceeded
// limit abort the read with a rejection.
func (p *Parser) Single(r *http.Request, field string) (*ports.Upload, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, reject(ReasonMalformed, "reading multipart body: %v", err)
	}

	var (
		upload    *ports.Upload
		fileCount int
		fieldNum  int
	)

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, reject(ReasonMalformed, "reading part: %v", err)
		}

		if len(part.Header) > p.limits.MaxHeaderPairs {
			part.Close()
			return nil, reject(ReasonHeaderPairs, "part has %d header pairs, limit %d", len(part.Header), p.limits.MaxHeaderPairs)
		}
		if len(part.FormName()) > p.limits.MaxFieldNameBytes {
			part.Close()
			return nil, reject(ReasonFieldName, "field name longer than %d bytes", p.limits.MaxFieldNameBytes)
		}

		if part.FileName() == "" {
			fieldNum++
			if fieldNum > p.limits.MaxNonFileFields {
				part.Close()
				return nil, reject(ReasonFieldCount, "more than %d non-file fields", p.limits.MaxNonFileFields)
			}
			if err := discardBounded(part, int64(p.limits.MaxFieldValueBytes)); err != nil {
				part.Close()
				return nil, err
			}
			part.Close()
			continue
		}

		fileCount++
		if fileCount > p.limits.MaxFilesPerRequest {
			part.Close()
			return nil, reject(ReasonFileCount, "more than %d files", p.limits.MaxFilesPerRequest)
		}
		if part.FormName() != field {
			part.Close()
			return nil, reject(ReasonUnexpectedFile, "unexpected file field %q, want %q", part.FormName(), field)
		}
		if err := checkFileType(part.FileName(), part.Header.Get("Content-Type")); err != nil {
			part.Close()
			return nil, err
		}

		data, err := readBounded(part, int64(p.limits.MaxFileBytes))
		part.Close()
		if err != nil {
			return nil, err
		}
		upload = &ports.Upload{Filename: filepath.Base(part.FileName()), Data: data}
	}

	if upload == nil {
		return nil, reject(ReasonNoFile, "no file field %q in request", field)
	}
	return upload, nil
}

func checkFileType(filename, contentType string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] || contentType != allowedContentType {
		return reject(ReasonFileType, "only jpeg images are accepted, got %q (%s)", filename, contentType)
	}
	return nil
}

// readBounded reads at most limit bytes and rejects a part that would exceed
// it, without ever buffering more than limit+1 bytes.
func readBounded(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, reject(ReasonMalformed, "reading file: %v", err)
	}
	if int64(len(data)) > limit {
		return nil, reject(ReasonFileSize, "file larger than %d bytes", limit)
	}
	return data, nil
}

func discardBounded(r io.Reader, limit int64) error {
	n, err := io.Copy(io.Discard, io.LimitReader(r, limit+1))
	if err != nil {
		return reject(ReasonMalformed, "reading field: %v", err)
	}
	if n > limit {
		return reject(ReasonFieldValue, "field value larger than %d bytes", limit)
	}
	return nil
}

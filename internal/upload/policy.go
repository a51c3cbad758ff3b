// Package upload implements the document acceptance policy for application
// attachments: a size ceiling, a MIME allowlist, and stored-file lifecycle.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Slots are the document attachment points on an application draft.
var Slots = []string{"proof_of_address", "proof_of_income", "license_front", "license_back", "selfie"}

// RejectionError reports why a file was refused. The draft slot is left
// unchanged on rejection.
type RejectionError struct {
	Code   string // too_large or bad_type
	Reason string
}

func (e *RejectionError) Error() string { return e.Reason }

// StoredFile describes an accepted upload on disk.
type StoredFile struct {
	Slot        string `json:"slot"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Path        string `json:"path"`
	Preview     bool   `json:"preview"`
}

// Policy is the acceptance policy applied to every upload.
type Policy struct {
	MaxBytes     int64
	AllowedTypes []string
	Dir          string
}

// NewPolicy builds a policy from the configured ceiling (in MB) and type
// allowlist. Entries may use a * wildcard, e.g. image/*.
func NewPolicy(maxSizeMB int, allowedTypes []string, dir string) *Policy {
	return &Policy{
		MaxBytes:     int64(maxSizeMB) * 1024 * 1024,
		AllowedTypes: allowedTypes,
		Dir:          dir,
	}
}

// ValidSlot reports whether slot is a known attachment point.
func ValidSlot(slot string) bool {
	for _, s := range Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// typeAllowed matches a detected content type against the allowlist.
func (p *Policy) typeAllowed(contentType string) bool {
	for _, allowed := range p.AllowedTypes {
		if allowed == contentType {
			return true
		}
		if strings.HasSuffix(allowed, "/*") &&
			strings.HasPrefix(contentType, strings.TrimSuffix(allowed, "*")) {
			return true
		}
	}
	return false
}

// Accept validates the file against the policy and, if it passes, stores it
// under a per-draft directory. Rejection returns a RejectionError and writes
// nothing.
func (p *Policy) Accept(draftID, slot string, header *multipart.FileHeader) (*StoredFile, error) {
	if header.Size > p.MaxBytes {
		return nil, &RejectionError{Code: "too_large", Reason: fmt.Sprintf("File is too large. Max size is %dMB.", p.MaxBytes/(1024*1024))}
	}

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// Sniff the real content type rather than trusting the header
	sniff := make([]byte, 512)
	n, err := src.Read(sniff)
	if err != nil && err != io.EOF {
		return nil, err
	}
	contentType := http.DetectContentType(sniff[:n])
	// DetectContentType appends a charset to text types; strip parameters
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if !p.typeAllowed(contentType) {
		return nil, &RejectionError{Code: "bad_type", Reason: fmt.Sprintf("Invalid file type. Please upload %s", strings.Join(p.AllowedTypes, ","))}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	dir := filepath.Join(p.Dir, draftID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dst := filepath.Join(dir, slot+"-"+uuid.New().String()+filepath.Ext(header.Filename))
	out, err := os.Create(dst)
	if err != nil {
		return nil, err
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return nil, err
	}

	return &StoredFile{
		Slot:        slot,
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: contentType,
		Path:        dst,
		Preview:     strings.HasPrefix(contentType, "image/"),
	}, nil
}

// Discard removes every stored file belonging to a draft. Called when the
// draft is abandoned or submitted.
func (p *Policy) Discard(draftID string) error {
	return os.RemoveAll(filepath.Join(p.Dir, draftID))
}

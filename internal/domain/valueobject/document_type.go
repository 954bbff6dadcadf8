package valueobject

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// DocumentType – immutable value object
// ---------------------------------------------------------------------------

// DocumentType is the kind of identity document an applicant presents.
type DocumentType struct {
	value string
}

const (
	documentTypeDNI      = "DNI"
	documentTypeCE       = "CE"
	documentTypePassport = "PASAPORTE"
	documentTypeRUC      = "RUC"
)

var (
	DocumentTypeDNI      = DocumentType{value: documentTypeDNI}
	DocumentTypeCE       = DocumentType{value: documentTypeCE}
	DocumentTypePassport = DocumentType{value: documentTypePassport}
	DocumentTypeRUC      = DocumentType{value: documentTypeRUC}
)

var validDocumentTypes = map[string]DocumentType{
	documentTypeDNI:      DocumentTypeDNI,
	documentTypeCE:       DocumentTypeCE,
	documentTypePassport: DocumentTypePassport,
	documentTypeRUC:      DocumentTypeRUC,
}

// NewDocumentType creates a DocumentType from a raw string (case-insensitive).
func NewDocumentType(s string) (DocumentType, error) {
	v, ok := validDocumentTypes[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return DocumentType{}, fmt.Errorf("invalid document type: %q", s)
	}
	return v, nil
}

// String returns the string representation of the document type.
func (d DocumentType) String() string { return d.value }

// IsZero returns true if the document type has not been initialised.
func (d DocumentType) IsZero() bool { return d.value == "" }

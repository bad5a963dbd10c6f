// internal/ocr/mapping.go
package ocr

import (
	"fmt"
	"strings"
)

// DocumentStatus carries the acceptance flags the extraction API reports for
// a scanned document.
type DocumentStatus struct {
	IsValid            bool `bson:"is_valid" json:"is_valid"`
	IsOlderThan18      bool `bson:"is_older_than_18" json:"is_older_than_18"`
	IsDocumentAccepted bool `bson:"is_document_accepted" json:"is_document_accepted"`
}

// DefaultDocumentStatus is the optimistic baseline merged under whatever the
// extraction API returns: a flag the engine did not report is treated as
// passing, and only an explicit false blocks the document. Do not flip these
// to false-by-default; the review flow depends on absence meaning "fine".
var DefaultDocumentStatus = DocumentStatus{
	IsValid:            true,
	IsOlderThan18:      true,
	IsDocumentAccepted: true,
}

// FieldMapping is the canonical record built from a raw OCR payload. Date
// fields hold zero-padded YYYY-MM-DD or "" — never anything else mid-pipeline.
// The *Ethiopian variants are derived display values, never authoritative.
type FieldMapping struct {
	FullName              string          `bson:"fullName" json:"fullName"`
	FullNameAmharic       string          `bson:"fullNameAmharic,omitempty" json:"fullNameAmharic,omitempty"`
	DateOfBirth           string          `bson:"dateOfBirth" json:"dateOfBirth"`
	DateOfBirthEthiopian  string          `bson:"dateOfBirthEthiopian,omitempty" json:"dateOfBirthEthiopian,omitempty"`
	DateOfIssue           string          `bson:"dateOfIssue,omitempty" json:"dateOfIssue,omitempty"`
	DateOfIssueEthiopian  string          `bson:"dateOfIssueEthiopian,omitempty" json:"dateOfIssueEthiopian,omitempty"`
	DateOfExpiry          string          `bson:"dateOfExpiry" json:"dateOfExpiry"`
	DateOfExpiryEthiopian string          `bson:"dateOfExpiryEthiopian,omitempty" json:"dateOfExpiryEthiopian,omitempty"`
	Gender                string          `bson:"gender" json:"gender"`
	IDNumber              string          `bson:"idNumber" json:"idNumber"`
	DocumentType          string          `bson:"documentType,omitempty" json:"documentType,omitempty"`
	IssuingAuthority      string          `bson:"issuingAuthority" json:"issuingAuthority"`
	DocumentID            string          `bson:"documentId,omitempty" json:"documentId,omitempty"`
	Sex                   string          `bson:"sex,omitempty" json:"sex,omitempty"`
	DocumentStatus        *DocumentStatus `bson:"documentStatus,omitempty" json:"documentStatus,omitempty"`
}

// The OCR engine's key naming is not stable across document types and
// vendors, so every canonical field carries an explicit ordered list of
// source keys. Adding a new synonym is a one-line change here.
var (
	fullNameKeys        = []string{"full_name", "name", "fullName"}
	fullNameAmharicKeys = []string{"full_name_amharic", "name_amharic", "amharic_name"}
	dateOfBirthKeys     = []string{"date_of_birth", "birth_date", "dob", "birthdate"}
	dateOfIssueKeys     = []string{"date_of_issue", "issue_date", "issued_date"}
	dateOfExpiryKeys    = []string{"date_of_expiry", "expiry_date", "expiration_date", "expires", "valid_until"}
	genderKeys          = []string{"gender", "sex"}
	idNumberKeys        = []string{"id_number", "document_number", "passport_number", "identity_number", "personal_number"}
	documentIDKeys      = []string{"document_id", "id"}
	documentTypeKeys    = []string{"document_type", "type"}
	issuingAuthKeys     = []string{"issuing_authority", "issuing_country", "authority", "issuer"}
)

// MapExtractedFields builds a canonical record from a raw OCR payload,
// falling back to the previous record's values for anything the new payload
// does not provide. All lookups are defensive: a missing or non-string key
// just falls through the precedence chain.
func MapExtractedFields(extracted map[string]any, fallback *FieldMapping) FieldMapping {
	if fallback == nil {
		fallback = &FieldMapping{}
	}

	record := FieldMapping{
		FullName:         firstNonEmpty(pick(extracted, fullNameKeys), composedName(extracted), fallback.FullName),
		FullNameAmharic:  firstNonEmpty(pick(extracted, fullNameAmharicKeys), fallback.FullNameAmharic),
		IDNumber:         firstNonEmpty(pick(extracted, idNumberKeys), fallback.IDNumber),
		DocumentID:       firstNonEmpty(pick(extracted, documentIDKeys), fallback.DocumentID),
		DocumentType:     firstNonEmpty(pick(extracted, documentTypeKeys), fallback.DocumentType),
		IssuingAuthority: firstNonEmpty(pick(extracted, issuingAuthKeys), fallback.IssuingAuthority),
	}

	record.DateOfBirth, record.DateOfBirthEthiopian = mapDate(
		extracted, dateOfBirthKeys, fallback.DateOfBirth, fallback.DateOfBirthEthiopian)
	record.DateOfIssue, record.DateOfIssueEthiopian = mapDate(
		extracted, dateOfIssueKeys, fallback.DateOfIssue, fallback.DateOfIssueEthiopian)
	record.DateOfExpiry, record.DateOfExpiryEthiopian = mapDate(
		extracted, dateOfExpiryKeys, fallback.DateOfExpiry, fallback.DateOfExpiryEthiopian)

	record.Gender = firstNonEmpty(pick(extracted, genderKeys), fallback.Gender)
	// sex is surfaced separately only when it disagrees with the resolved
	// gender, so the review UI never shows the same value twice.
	if sex := stringValue(extracted["sex"]); sex != "" && sex != record.Gender {
		record.Sex = sex
	}

	record.DocumentStatus = mapDocumentStatus(extracted["document_status"])

	return record
}

// mapDate resolves one date field. A raw value carrying an Ethiopian
// calendar marker is extracted and converted, populating both the Gregorian
// field and its Ethiopian sibling; anything else goes through input
// normalization directly and leaves the sibling untouched.
func mapDate(extracted map[string]any, keys []string, fallbackGregorian, fallbackEthiopian string) (gregorian, ethiopian string) {
	raw := pick(extracted, keys)
	if raw == "" {
		return fallbackGregorian, fallbackEthiopian
	}

	if ContainsEthiopianMarker(raw) {
		ethiopian = ExtractEthiopianDate(raw)
		gregorian = ToGregorian(ethiopian)
		return gregorian, ethiopian
	}

	return FormatForInput(raw), ""
}

func mapDocumentStatus(raw any) *DocumentStatus {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	status := DefaultDocumentStatus
	if v, ok := m["is_valid"].(bool); ok {
		status.IsValid = v
	}
	if v, ok := m["is_older_than_18"].(bool); ok {
		status.IsOlderThan18 = v
	}
	if v, ok := m["is_document_accepted"].(bool); ok {
		status.IsDocumentAccepted = v
	}
	return &status
}

func composedName(extracted map[string]any) string {
	given := stringValue(extracted["given_name"])
	surname := stringValue(extracted["surname"])
	if given == "" || surname == "" {
		return ""
	}
	return given + " " + surname
}

func pick(extracted map[string]any, keys []string) string {
	for _, key := range keys {
		if v := stringValue(extracted[key]); v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// stringValue coerces a loosely typed payload value. The engine has been
// seen returning numbers for ID fields, hence the numeric cases.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case int:
		return fmt.Sprintf("%d", t)
	default:
		return ""
	}
}

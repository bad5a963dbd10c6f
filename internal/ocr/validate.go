// internal/ocr/validate.go
package ocr

import "strings"

// ValidationResult reports every failed check, not just the first one, so
// the review UI can highlight all problem fields at once.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Validate checks the six required fields of a canonical record. The error
// strings are fixed; the review UI matches on them. Ethiopian-variant dates,
// documentId, sex, documentType and documentStatus are never validated.
func Validate(record FieldMapping) ValidationResult {
	var errs []string

	if strings.TrimSpace(record.FullName) == "" {
		errs = append(errs, "Full name is required")
	}

	if strings.TrimSpace(record.DateOfBirth) == "" {
		errs = append(errs, "Date of birth is required")
	} else if _, ok := parseDate(record.DateOfBirth); !ok {
		errs = append(errs, "Invalid date of birth format")
	}

	if strings.TrimSpace(record.DateOfExpiry) == "" {
		errs = append(errs, "Expiry date is required")
	} else if _, ok := parseDate(record.DateOfExpiry); !ok {
		errs = append(errs, "Invalid expiry date format")
	}

	if strings.TrimSpace(record.Gender) == "" {
		errs = append(errs, "Gender is required")
	}

	if strings.TrimSpace(record.IDNumber) == "" {
		errs = append(errs, "ID number is required")
	}

	if strings.TrimSpace(record.IssuingAuthority) == "" {
		errs = append(errs, "Issuing authority is required")
	}

	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// Clean returns a copy of the record with its free-text fields trimmed.
// Fields left unset stay unset. Trimming is idempotent, so Clean can run
// again before every persist without changing anything.
func Clean(record FieldMapping) FieldMapping {
	cleaned := record
	cleaned.FullName = strings.TrimSpace(record.FullName)
	cleaned.FullNameAmharic = strings.TrimSpace(record.FullNameAmharic)
	cleaned.Gender = strings.TrimSpace(record.Gender)
	cleaned.IDNumber = strings.TrimSpace(record.IDNumber)
	cleaned.DocumentType = strings.TrimSpace(record.DocumentType)
	cleaned.IssuingAuthority = strings.TrimSpace(record.IssuingAuthority)
	cleaned.DocumentID = strings.TrimSpace(record.DocumentID)
	cleaned.Sex = strings.TrimSpace(record.Sex)
	return cleaned
}

// internal/ocr/validate_test.go
package ocr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validRecord() FieldMapping {
	return FieldMapping{
		FullName:         "Jane Doe",
		DateOfBirth:      "1990-05-15",
		DateOfExpiry:     "2030-05-15",
		Gender:           "Female",
		IDNumber:         "A1234567",
		IssuingAuthority: "NIDP",
	}
}

func TestValidate(t *testing.T) {
	t.Run("complete record passes", func(t *testing.T) {
		result := Validate(validRecord())
		require.True(t, result.IsValid)
		require.Empty(t, result.Errors)
	})

	t.Run("empty record fails every required check", func(t *testing.T) {
		result := Validate(FieldMapping{})
		require.False(t, result.IsValid)
		require.Equal(t, []string{
			"Full name is required",
			"Date of birth is required",
			"Expiry date is required",
			"Gender is required",
			"ID number is required",
			"Issuing authority is required",
		}, result.Errors)
	})

	t.Run("whitespace-only fields count as missing", func(t *testing.T) {
		record := validRecord()
		record.FullName = "   "
		result := Validate(record)
		require.False(t, result.IsValid)
		require.Contains(t, result.Errors, "Full name is required")
	})

	t.Run("present but unparsable dates get the format error", func(t *testing.T) {
		record := validRecord()
		record.DateOfBirth = "15th of May"
		record.DateOfExpiry = "soon"
		result := Validate(record)
		require.False(t, result.IsValid)
		require.Contains(t, result.Errors, "Invalid date of birth format")
		require.Contains(t, result.Errors, "Invalid expiry date format")
		require.NotContains(t, result.Errors, "Date of birth is required")
	})

	t.Run("checks are independent", func(t *testing.T) {
		record := validRecord()
		record.FullName = ""
		record.Gender = ""
		result := Validate(record)
		require.Len(t, result.Errors, 2)
	})

	t.Run("optional fields are never validated", func(t *testing.T) {
		record := validRecord()
		record.DateOfBirthEthiopian = "garbage"
		record.DocumentID = ""
		record.Sex = ""
		result := Validate(record)
		require.True(t, result.IsValid)
	})
}

func TestClean(t *testing.T) {
	t.Run("trims free-text fields", func(t *testing.T) {
		record := FieldMapping{
			FullName:         "  Jane Doe  ",
			FullNameAmharic:  " ጄን ዶ ",
			Gender:           " Female",
			IDNumber:         "A1234567 ",
			DocumentType:     " passport ",
			IssuingAuthority: " NIDP ",
			DocumentID:       " doc-1 ",
			Sex:              " F ",
		}
		cleaned := Clean(record)
		require.Equal(t, "Jane Doe", cleaned.FullName)
		require.Equal(t, "ጄን ዶ", cleaned.FullNameAmharic)
		require.Equal(t, "Female", cleaned.Gender)
		require.Equal(t, "A1234567", cleaned.IDNumber)
		require.Equal(t, "passport", cleaned.DocumentType)
		require.Equal(t, "NIDP", cleaned.IssuingAuthority)
		require.Equal(t, "doc-1", cleaned.DocumentID)
		require.Equal(t, "F", cleaned.Sex)
	})

	t.Run("does not touch dates or status", func(t *testing.T) {
		record := validRecord()
		record.DocumentStatus = &DocumentStatus{IsValid: true}
		cleaned := Clean(record)
		require.Equal(t, record.DateOfBirth, cleaned.DateOfBirth)
		require.Equal(t, record.DateOfExpiry, cleaned.DateOfExpiry)
		require.Equal(t, record.DocumentStatus, cleaned.DocumentStatus)
	})

	t.Run("unset optionals stay unset", func(t *testing.T) {
		cleaned := Clean(validRecord())
		require.Empty(t, cleaned.FullNameAmharic)
		require.Empty(t, cleaned.DocumentID)
	})

	t.Run("cleaning is idempotent", func(t *testing.T) {
		record := FieldMapping{
			FullName: "  Jane Doe ",
			Gender:   " F ",
			IDNumber: " 123 ",
		}
		once := Clean(record)
		require.Equal(t, once, Clean(once))
	})

	t.Run("input record is not mutated", func(t *testing.T) {
		record := FieldMapping{FullName: "  Jane  "}
		Clean(record)
		require.Equal(t, "  Jane  ", record.FullName)
	})
}

// internal/ocr/dates_test.go
package ocr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatForDisplay(t *testing.T) {
	t.Run("renders long form", func(t *testing.T) {
		require.Equal(t, "April 15, 2020", FormatForDisplay("2020-04-15"))
	})

	t.Run("accepts RFC3339 timestamps", func(t *testing.T) {
		require.Equal(t, "April 15, 2020", FormatForDisplay("2020-04-15T00:00:00Z"))
	})

	t.Run("unparsable input is echoed back", func(t *testing.T) {
		require.Equal(t, "invalid", FormatForDisplay("invalid"))
	})

	t.Run("empty input is echoed back", func(t *testing.T) {
		require.Equal(t, "", FormatForDisplay(""))
	})
}

func TestFormatForInput(t *testing.T) {
	t.Run("renders ISO form", func(t *testing.T) {
		require.Equal(t, "2020-04-15", FormatForInput("2020-04-15"))
	})

	t.Run("normalizes RFC3339 timestamps", func(t *testing.T) {
		require.Equal(t, "2020-04-15", FormatForInput("2020-04-15T10:30:00Z"))
	})

	t.Run("normalizes slash dates", func(t *testing.T) {
		require.Equal(t, "2020-04-15", FormatForInput("15/04/2020"))
	})

	t.Run("unparsable input becomes empty, unlike display", func(t *testing.T) {
		require.Equal(t, "", FormatForInput("invalid"))
		require.Equal(t, "invalid", FormatForDisplay("invalid"))
	})

	t.Run("empty input stays empty", func(t *testing.T) {
		require.Equal(t, "", FormatForInput(""))
	})

	t.Run("impossible calendar date is rejected", func(t *testing.T) {
		require.Equal(t, "", FormatForInput("2020-13-45"))
	})
}

// internal/ocr/ethiopian_test.go
package ocr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToGregorian(t *testing.T) {
	t.Run("applies fixed seven year offset", func(t *testing.T) {
		require.Equal(t, "2020-04-15", ToGregorian("2013-04-15"))
	})

	t.Run("zero pads month and day", func(t *testing.T) {
		require.Equal(t, "2020-04-05", ToGregorian("2013-4-5"))
	})

	t.Run("empty input returns empty", func(t *testing.T) {
		require.Equal(t, "", ToGregorian(""))
	})

	t.Run("non-date input returns empty", func(t *testing.T) {
		require.Equal(t, "", ToGregorian("invalid"))
	})

	t.Run("partial date returns empty", func(t *testing.T) {
		require.Equal(t, "", ToGregorian("2013-04"))
	})
}

func TestToEthiopian(t *testing.T) {
	t.Run("applies fixed seven year offset", func(t *testing.T) {
		require.Equal(t, "2015-09-23", ToEthiopian("2022-09-23"))
	})

	t.Run("empty input returns empty", func(t *testing.T) {
		require.Equal(t, "", ToEthiopian(""))
	})

	t.Run("non-date input returns empty", func(t *testing.T) {
		require.Equal(t, "", ToEthiopian("invalid"))
	})
}

func TestConversionRoundTrip(t *testing.T) {
	dates := []string{
		"1990-01-01",
		"2013-04-15",
		"2022-09-23",
		"2000-12-31",
		"1987-07-09",
	}

	for _, d := range dates {
		t.Run(fmt.Sprintf("gregorian %s survives the round trip", d), func(t *testing.T) {
			require.Equal(t, d, ToGregorian(ToEthiopian(d)))
		})
		t.Run(fmt.Sprintf("ethiopian %s survives the round trip", d), func(t *testing.T) {
			require.Equal(t, d, ToEthiopian(ToGregorian(d)))
		})
	}
}

func TestExtractEthiopianDate(t *testing.T) {
	t.Run("ISO date with E.C. marker", func(t *testing.T) {
		require.Equal(t, "2013-04-15", ExtractEthiopianDate("2013-04-15 E.C."))
	})

	t.Run("ISO date with Amharic marker", func(t *testing.T) {
		require.Equal(t, "2015-09-23", ExtractEthiopianDate("2015-09-23 ዓ.ም"))
	})

	t.Run("ISO date zero pads single digits", func(t *testing.T) {
		require.Equal(t, "2013-04-05", ExtractEthiopianDate("2013-4-5 E.C."))
	})

	t.Run("slash date with marker is reordered", func(t *testing.T) {
		require.Equal(t, "2013-04-15", ExtractEthiopianDate("15/04/2013 E.C."))
	})

	t.Run("slash date with Amharic marker", func(t *testing.T) {
		require.Equal(t, "2015-09-23", ExtractEthiopianDate("23/9/2015 ዓ.ም"))
	})

	t.Run("digit run fallback without marker", func(t *testing.T) {
		require.Equal(t, "2013-04-15", ExtractEthiopianDate("born 2013 month 4 day 15"))
	})

	t.Run("fallback accepts day 31 in any month", func(t *testing.T) {
		require.Equal(t, "2013-02-31", ExtractEthiopianDate("2013 2 31"))
	})

	t.Run("fallback rejects month out of range", func(t *testing.T) {
		require.Equal(t, "", ExtractEthiopianDate("2013 13 15"))
	})

	t.Run("fallback rejects day out of range", func(t *testing.T) {
		require.Equal(t, "", ExtractEthiopianDate("2013 4 32"))
	})

	t.Run("fallback requires four digit year", func(t *testing.T) {
		require.Equal(t, "", ExtractEthiopianDate("13 4 15"))
	})

	t.Run("fewer than three digit runs", func(t *testing.T) {
		require.Equal(t, "", ExtractEthiopianDate("2013 04"))
	})

	t.Run("no digits at all", func(t *testing.T) {
		require.Equal(t, "", ExtractEthiopianDate("no date here"))
	})

	t.Run("empty string", func(t *testing.T) {
		require.Equal(t, "", ExtractEthiopianDate(""))
	})
}

func TestContainsEthiopianMarker(t *testing.T) {
	require.True(t, ContainsEthiopianMarker("2013-04-15 E.C."))
	require.True(t, ContainsEthiopianMarker("2015-09-23 ዓ.ም"))
	require.False(t, ContainsEthiopianMarker("2015-09-23"))
}

package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMajorUnits(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"999.00", 99900},
		{"499.00", 49900},
		{"1499.00", 149900},
		{"10.00", 1000},
		{"0.29", 29},
		{"0.01", 1},
		{"999", 99900},
		{"999.9", 99990},
		{" 999.00 ", 99900},
		{"0.00", 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMajorUnits(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseMajorUnitsRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "-1.00", "1.234", "abc", "1.2x", "1,00", ".50", "12.3.4"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseMajorUnits(in)
			assert.Error(t, err)
		})
	}
}

func TestFormatMajorUnits(t *testing.T) {
	assert.Equal(t, "999.00", FormatMajorUnits(99900))
	assert.Equal(t, "0.29", FormatMajorUnits(29))
	assert.Equal(t, "10.00", FormatMajorUnits(1000))
	assert.Equal(t, "0.00", FormatMajorUnits(0))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, minor := range []int64{1, 29, 1000, 49900, 99900, 149900} {
		got, err := ParseMajorUnits(FormatMajorUnits(minor))
		require.NoError(t, err)
		assert.Equal(t, minor, got)
	}
}

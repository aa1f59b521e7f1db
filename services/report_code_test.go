package services

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReportCode(t *testing.T) {
	t.Run("Format", func(t *testing.T) {
		pattern := regexp.MustCompile(`^MH-2024-\d{6}$`)
		for i := 0; i < 50; i++ {
			code := BuildReportCode("MH", 2024)
			assert.Regexp(t, pattern, code)
		}
	})

	t.Run("Serial Range", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			code := BuildReportCode("KA", 2025)
			comp, err := ParseReportCode(code)
			require.NoError(t, err)

			serial, err := strconv.Atoi(comp.Serial)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, serial, 100000)
			assert.LessOrEqual(t, serial, 999999)
		}
	})

	t.Run("Current Year Default", func(t *testing.T) {
		code := BuildReportCode("DL", 0)
		comp, err := ParseReportCode(code)
		require.NoError(t, err)
		assert.NotZero(t, comp.Year)
	})
}

func TestJurisdictionPrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Two Letter Code", "MH", "MH"},
		{"Lowercase", "mh", "MH"},
		{"Long Name Truncated", "Maharashtra", "MA"},
		{"Single Letter Padded", "K", "KX"},
		{"Empty Padded", "", "XX"},
		{"Whitespace Padded", "   ", "XX"},
		{"Non Letters Dropped", "2A", "AX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JurisdictionPrefix(tt.input))
		})
	}
}

func TestParseReportCode(t *testing.T) {
	t.Run("Valid Code", func(t *testing.T) {
		comp, err := ParseReportCode("MH-2024-483920")
		require.NoError(t, err)
		assert.Equal(t, "MH", comp.Jurisdiction)
		assert.Equal(t, 2024, comp.Year)
		assert.Equal(t, "483920", comp.Serial)
	})

	t.Run("Single Letter Jurisdiction", func(t *testing.T) {
		comp, err := ParseReportCode("K-2023-100000")
		require.NoError(t, err)
		assert.Equal(t, "K", comp.Jurisdiction)
	})

	t.Run("Invalid Codes", func(t *testing.T) {
		invalid := []string{
			"",
			"MH-2024",
			"MH-24-483920",
			"mh-2024-483920",
			"MHX-2024-483920",
			"MH-2024-48392",
			"MH-2024-4839200",
			"FIR244839",
		}
		for _, code := range invalid {
			_, err := ParseReportCode(code)
			assert.Error(t, err, "expected %q to be rejected", code)
		}
	})
}

func TestValidateReportCode(t *testing.T) {
	assert.True(t, ValidateReportCode("MH-2024-483920"))
	assert.True(t, ValidateReportCode("  MH-2024-483920  "))
	assert.False(t, ValidateReportCode("MH-2024-ABCDEF"))
	assert.False(t, ValidateReportCode("not-a-code"))
}

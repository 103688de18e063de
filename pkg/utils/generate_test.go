package utils

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP_AlwaysSixDigitsInRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Web Development":       "web-development",
		"  Go   Concurrency  ":  "go-concurrency",
		"C++ & Rust!":           "c--rust",
		"already-slugged_value": "already-slugged_value",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestUniqueSlug_AppendsMillis(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "hello-world-1700000000123", UniqueSlug("Hello World", at))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}

package utils

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURL(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	contentType, data, err := ParseDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, payload, data)

	t.Run("rejects plain URLs", func(t *testing.T) {
		_, _, err := ParseDataURL("https://cdn.test/banner.png")
		assert.Error(t, err)
	})

	t.Run("rejects malformed base64", func(t *testing.T) {
		_, _, err := ParseDataURL("data:image/png;base64,@@@@")
		assert.Error(t, err)
	})
}

func TestIsDataURL(t *testing.T) {
	assert.True(t, IsDataURL("data:image/png;base64,AAAA"))
	assert.False(t, IsDataURL("https://cdn.test/a.png"))
	assert.False(t, IsDataURL(""))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 Bytes", FormatFileSize(0))
	assert.Equal(t, "512.00 Bytes", FormatFileSize(512))
	assert.Equal(t, "1.00 KB", FormatFileSize(1024))
	assert.Equal(t, "2.50 MB", FormatFileSize(2621440))
}

func TestFormatMediaDuration(t *testing.T) {
	assert.Equal(t, "45s", FormatMediaDuration(45))
	assert.Equal(t, "2m 5s", FormatMediaDuration(125))
	assert.Equal(t, "1h 1m 1s", FormatMediaDuration(3661))
}

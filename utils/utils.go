package utils

import (
	"encoding/base64"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse creates a standardized error response
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	response := fiber.Map{
		"success": false,
		"error":   message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	return c.Status(status).JSON(response)
}

// SuccessResponse creates a standardized success response
func SuccessResponse(data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"data":    data,
	}
}

// FormatFileSize renders a byte count for display
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	return fmt.Sprintf("%.2f %s", float64(bytes)/math.Pow(1024, float64(i)), units[i])
}

// FormatMediaDuration renders a playback time in seconds for display
func FormatMediaDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	remaining := seconds % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, remaining)
	}
	return fmt.Sprintf("%dh %dm %ds", minutes/60, minutes%60, remaining)
}

var dataURLPattern = regexp.MustCompile(`^data:(.+?);base64,(.+)$`)

// IsDataURL reports whether a media reference is an inline data URL
func IsDataURL(url string) bool {
	return strings.HasPrefix(url, "data:")
}

// ParseDataURL splits an inline base64 data URL into its MIME type and
// decoded payload.
func ParseDataURL(url string) (string, []byte, error) {
	matches := dataURLPattern.FindStringSubmatch(url)
	if len(matches) != 3 {
		return "", nil, fmt.Errorf("invalid data URL format")
	}
	payload, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URL payload: %w", err)
	}
	return matches[1], payload, nil
}

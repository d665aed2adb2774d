package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// ValidateInputType checks the submitted content type against the allowed set
func ValidateInputType(inputType string) error {
	allowed := map[string]bool{
		"text":  true,
		"image": true,
		"video": true,
		"voice": true,
	}

	if !allowed[strings.ToLower(inputType)] {
		return fmt.Errorf("invalid inputType: %s (allowed: text, image, video, voice)", inputType)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateAnalysisID validates record ID format (uuid v4)
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis ID cannot be empty")
	}

	pattern := `^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`
	matched, _ := regexp.MatchString(pattern, strings.ToLower(id))
	if !matched {
		return fmt.Errorf("invalid analysis ID format")
	}

	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 10 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming
// whitespace). Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "storyID" -> "story ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"projectID":   "project ID",
		"folderID":    "folder ID",
		"storyID":     "story ID",
		"versionID":   "version ID",
		"parentID":    "parent ID",
		"sourceID":    "source ID",
		"destID":      "destination ID",
		"name":        "name",
		"title":       "title",
		"description": "description",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

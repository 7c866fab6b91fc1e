package helpers

import (
	"errors"
	"strings"
)

// GetSplitPart splits target by separate and returns the part at index
func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}

// CollapseSpaces trims the string and collapses internal whitespace runs
// into single spaces. Scraped titles and offer lines often carry layout
// whitespace from the page.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

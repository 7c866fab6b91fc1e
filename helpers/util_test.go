package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSplitPart(t *testing.T) {
	part, err := GetSplitPart("https://www.amazon.in/dp/B0CHX2F5QT", "/dp/", 1)
	assert.NoError(t, err)
	assert.Equal(t, "B0CHX2F5QT", part)

	_, err = GetSplitPart("https://www.amazon.in/gp/help", "/dp/", 1)
	assert.Error(t, err)
}

func TestCollapseSpaces(t *testing.T) {
	assert.Equal(t, "10% off on HDFC Bank", CollapseSpaces("  10%   off \n\ton HDFC Bank "))
	assert.Equal(t, "", CollapseSpaces(" \n\t "))
	assert.Equal(t, "unchanged", CollapseSpaces("unchanged"))
}

// ABOUTME: Tests for the root hazlens package, verifying project structure
// ABOUTME: These tests ensure the basic package setup is working correctly

package hazlens_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hazlens"
)

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, hazlens.Version)
	assert.True(t, strings.HasPrefix(hazlens.Version, "0."),
		"version should be semantic, got %q", hazlens.Version)
}

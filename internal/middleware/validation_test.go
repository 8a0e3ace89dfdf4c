package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/google/uuid"
)

func TestValidateEntityID(t *testing.T) {
	assert.NoError(t, ValidateEntityID(uuid.New().String()))
	assert.Error(t, ValidateEntityID("not-a-uuid"))
	assert.Error(t, ValidateEntityID(""))
}

func TestValidateSpaceName(t *testing.T) {
	assert.NoError(t, ValidateSpaceName("Work"))
	assert.Error(t, ValidateSpaceName(""))
	assert.Error(t, ValidateSpaceName(strings.Repeat("a", 129)))
	assert.Error(t, ValidateSpaceName("bad\xff"))
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle(""), "empty title falls back to the default")
	assert.NoError(t, ValidateTitle("Quarterly plans"))
	assert.Error(t, ValidateTitle(strings.Repeat("a", 257)))
}

func TestValidateMessageContent(t *testing.T) {
	assert.NoError(t, ValidateMessageContent("hello"))
	assert.Error(t, ValidateMessageContent(""))
	assert.Error(t, ValidateMessageContent(strings.Repeat("a", 100001)))
}

package randx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDsAreValidAndUnique(t *testing.T) {
	a, b := MessageID(), MessageID()
	assert.True(t, IsValidID(a))
	assert.True(t, IsValidID(CallID()))
	assert.NotEqual(t, a, b)
}

func TestUploadKey(t *testing.T) {
	key := UploadKey("images", "Holiday.JPG")
	assert.True(t, strings.HasPrefix(key, "images/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	id := strings.TrimSuffix(strings.TrimPrefix(key, "images/"), ".jpg")
	assert.True(t, IsValidID(id))
}

func TestIsValidID(t *testing.T) {
	assert.False(t, IsValidID(""))
	assert.False(t, IsValidID("guest_abc123"))
}

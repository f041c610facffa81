package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("6f1f9f2e-0b6e-4b53-a3c1-7d2f8e9a1b2c", "avatar.png")
	assert.Equal(t, "6f1f9f2e-0b6e-4b53-a3c1-7d2f8e9a1b2c/avatar.png", key)

	key = ObjectKey("owner", "/nested/name.jpg")
	assert.Equal(t, "owner/nested/name.jpg", key)
}

func TestOwnerOfKey(t *testing.T) {
	assert.Equal(t, "owner", OwnerOfKey("owner/name.jpg"))
	assert.Equal(t, "owner", OwnerOfKey("owner/nested/name.jpg"))
	assert.Equal(t, "", OwnerOfKey("no-prefix.jpg"))
}

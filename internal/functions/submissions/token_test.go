package submissions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDownloadTokenRoundtrip(t *testing.T) {
	key := []byte("test-signing-key")
	now := time.Now()

	token, err := MakeDownloadToken(key, "exports/quest1-123.zip", time.Hour, now)
	assert.Nil(t, err)

	path, err := ParseDownloadToken(key, token)
	assert.Nil(t, err)
	assert.Equal(t, "exports/quest1-123.zip", path)
}

func TestDownloadTokenWrongKey(t *testing.T) {
	now := time.Now()

	token, err := MakeDownloadToken([]byte("key-one"), "exports/a.zip", time.Hour, now)
	assert.Nil(t, err)

	_, err = ParseDownloadToken([]byte("key-two"), token)
	assert.NotNil(t, err)
}

func TestDownloadTokenExpired(t *testing.T) {
	key := []byte("test-signing-key")

	token, err := MakeDownloadToken(key, "exports/a.zip", time.Hour, time.Now().Add(-2*time.Hour))
	assert.Nil(t, err)

	_, err = ParseDownloadToken(key, token)
	assert.NotNil(t, err)
}

func TestDownloadTokenGarbage(t *testing.T) {
	_, err := ParseDownloadToken([]byte("key"), "definitely-not-a-token")
	assert.NotNil(t, err)
}

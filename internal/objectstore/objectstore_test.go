package objectstore

import (
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
)

func TestServiceAccountResource(t *testing.T) {
	assert.Equal(t,
		"projects/-/serviceAccounts/raceday@test.iam.gserviceaccount.com",
		serviceAccountResource("raceday@test.iam.gserviceaccount.com"))
}

func TestSignedURLOptionsCarrySignerIdentity(t *testing.T) {
	signerID = "raceday@test.iam.gserviceaccount.com"

	opts := signedURLOptions("GET", time.Now().Add(15*time.Minute))

	assert.Equal(t, signerID, opts.GoogleAccessID)
	assert.NotNil(t, opts.SignBytes)
	assert.Equal(t, storage.SigningSchemeV4, opts.Scheme)

	// the signer runs offline once SignBytes is supplied
	opts.SignBytes = func(payload []byte) ([]byte, error) {
		return []byte("signature"), nil
	}

	url, err := storage.SignedURL("raceday-submissions", "exports/sq1-1.zip", opts)
	assert.Nil(t, err)
	assert.True(t, strings.Contains(url, "raceday-submissions/exports/sq1-1.zip"))
	assert.True(t, strings.Contains(url, "X-Goog-Signature="))
}

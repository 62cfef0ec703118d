package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateJoinCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		var code = GenerateJoinCode()

		match, err := regexp.MatchString(`^[A-Z]{3}[0-9]{3}$`, code)
		assert.Nil(t, err, "Failed: %v", code)
		assert.True(t, match, "Failed: %v", code)
	}

}

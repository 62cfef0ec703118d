package utils

import (
	"math/rand"
	"time"

	"gopkg.in/go-playground/validator.v9"
)

//SeededRand Seeded random
var SeededRand *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

//Validate -_-
var Validate *validator.Validate

func init() {
	Validate = validator.New()
}

//GenerateJoinCode generates new group join code
func GenerateJoinCode() string {
	// LLLNNN, L = letter N = number
	b := make([]byte, 6)

	for i := 0; i <= 2; i++ {
		b[i] = byte(SeededRand.Intn(26) + 65)
	}

	for i := 3; i <= 5; i++ {
		b[i] = byte(SeededRand.Intn(10) + 48)
	}

	return string(b)
}

// GetTimeNow Gets current time
func GetTimeNow() *time.Time {
	t := time.Now()

	return &t
}

package submissions

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

//MakeDownloadToken Issues a short-lived token authorizing the download of one
//export object. The object path travels as the token subject.
func MakeDownloadToken(key []byte, objectPath string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.StandardClaims{
		Subject:   objectPath,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

//ParseDownloadToken Verifies a download token and returns the object path it
//authorizes.
func ParseDownloadToken(key []byte, tokenString string) (string, error) {
	var claims jwt.StandardClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid download token")
	}

	return claims.Subject, nil
}

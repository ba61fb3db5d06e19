package auth

import (
	"time"

	"github.com/fogrup/fogrup-backend/env"
	"github.com/golang-jwt/jwt/v4"
)

func genAccessToken(aud, sub string) (string, error) {
	// HS256 for symmetric signature, sign and verify in server. aud is
	// the device IP, sub the member id; the middleware reads both back
	// as plain strings.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		IssuedAt:  time.Now().Unix(),
		Issuer:    "https://fogrup.test",
		Audience:  aud,
		Subject:   sub,
	})
	return token.SignedString(env.HS256_SECRET)
}

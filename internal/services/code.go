package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"camp-management-backend/internal/apperr"
)

const (
	camperCodeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	camperCodeDigits  = "0123456789"

	defaultCodeAttempts = 50
)

// GenerateCamperCode draws random 6-character codes (three uppercase letters
// followed by three digits) until one is not in the existing set. The retry
// loop is bounded: with 17.5M possible codes a collision streak long enough to
// hit the cap means something is badly wrong, and we surface that instead of
// spinning.
func GenerateCamperCode(existing map[string]struct{}, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = defaultCodeAttempts
	}

	for i := 0; i < maxAttempts; i++ {
		code, err := drawCamperCode()
		if err != nil {
			return "", fmt.Errorf("failed to draw camper code: %w", err)
		}
		if _, taken := existing[code]; !taken {
			return code, nil
		}
	}

	return "", apperr.ErrCodeExhausted
}

// drawCamperCode is a seam for tests that need deterministic draws.
var drawCamperCode = randomCamperCode

func randomCamperCode() (string, error) {
	buf := make([]byte, 0, 6)
	for i := 0; i < 3; i++ {
		c, err := randomChar(camperCodeLetters)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	for i := 0; i < 3; i++ {
		c, err := randomChar(camperCodeDigits)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	return string(buf), nil
}

func randomChar(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, err
	}
	return alphabet[n.Int64()], nil
}

// CodeSet builds the lookup set GenerateCamperCode expects.
func CodeSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

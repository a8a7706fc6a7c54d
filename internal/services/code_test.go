package services

import (
	"errors"
	"regexp"
	"testing"

	"camp-management-backend/internal/apperr"
)

var camperCodePattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`)

func TestGenerateCamperCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCamperCode(nil, 0)
		if err != nil {
			t.Fatalf("GenerateCamperCode() error = %v", err)
		}
		if !camperCodePattern.MatchString(code) {
			t.Fatalf("GenerateCamperCode() = %q, want three uppercase letters and three digits", code)
		}
	}
}

func TestGenerateCamperCodeAvoidsExisting(t *testing.T) {
	existing := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		code, err := GenerateCamperCode(existing, 50)
		if err != nil {
			t.Fatalf("GenerateCamperCode() error = %v after %d codes", err, i)
		}
		if _, taken := existing[code]; taken {
			t.Fatalf("GenerateCamperCode() returned duplicate code %q", code)
		}
		existing[code] = struct{}{}
	}
}

func TestGenerateCamperCodeExhaustion(t *testing.T) {
	// Force every draw to collide so the retry loop runs out of attempts.
	orig := drawCamperCode
	drawCamperCode = func() (string, error) { return "AAA111", nil }
	defer func() { drawCamperCode = orig }()

	existing := CodeSet([]string{"AAA111"})

	_, err := GenerateCamperCode(existing, 10)
	if err == nil {
		t.Fatal("GenerateCamperCode() expected exhaustion error, got nil")
	}

	appErr, ok := apperr.As(err)
	if !ok {
		t.Fatalf("GenerateCamperCode() error = %v, want *apperr.Error", err)
	}
	if appErr.Code != "CODE_GENERATION_EXHAUSTED" {
		t.Errorf("error code = %q, want CODE_GENERATION_EXHAUSTED", appErr.Code)
	}
	if !errors.Is(err, apperr.ErrCodeExhausted) {
		t.Errorf("errors.Is(err, ErrCodeExhausted) = false, want true")
	}
}

func TestCodeSet(t *testing.T) {
	set := CodeSet([]string{"ABC123", "XYZ789"})
	if len(set) != 2 {
		t.Fatalf("CodeSet() len = %d, want 2", len(set))
	}
	if _, ok := set["ABC123"]; !ok {
		t.Error("CodeSet() missing ABC123")
	}
	if _, ok := set["DEF456"]; ok {
		t.Error("CodeSet() contains DEF456 unexpectedly")
	}
}

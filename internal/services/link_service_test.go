package services

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"camp-management-backend/internal/models"
	"camp-management-backend/internal/repositories"

	"github.com/google/uuid"
)

var linkTokenPattern = regexp.MustCompile(`^[a-z0-9_]{1,3}_[a-z0-9]{12}$`)

func TestGenerateLinkToken(t *testing.T) {
	tests := []struct {
		name       string
		linkName   string
		wantPrefix string
	}{
		{"long name truncated", "Youth Registration", "you"},
		{"short name kept", "VIP", "vip"},
		{"spaces become underscores", "a b", "a_b"},
		{"empty name falls back", "", "reg"},
		{"whitespace only falls back", "   ", "reg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateLinkToken(tt.linkName)
			if err != nil {
				t.Fatalf("GenerateLinkToken() error = %v", err)
			}
			if !strings.HasPrefix(token, tt.wantPrefix+"_") {
				t.Errorf("GenerateLinkToken(%q) = %q, want prefix %q", tt.linkName, token, tt.wantPrefix)
			}
			if !linkTokenPattern.MatchString(token) {
				t.Errorf("GenerateLinkToken(%q) = %q, does not match token pattern", tt.linkName, token)
			}
		})
	}
}

func TestGenerateLinkTokenUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		token, err := GenerateLinkToken("camp")
		if err != nil {
			t.Fatalf("GenerateLinkToken() error = %v", err)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token %q after %d draws", token, i)
		}
		seen[token] = struct{}{}
	}
}

func TestCheckLink(t *testing.T) {
	camps := newFakeCampRepo()
	links := newFakeLinkRepo()
	regs := newFakeRegistrationRepo(camps, links)
	svc := NewLinkService(&repositories.Repository{
		CampRepo:         camps,
		LinkRepo:         links,
		RegistrationRepo: regs,
	})

	camp := &models.Camp{
		ID:                   uuid.New(),
		Name:                 "Summer Camp",
		Capacity:             10,
		RegistrationDeadline: time.Now().UTC().Add(7 * 24 * time.Hour),
		IsActive:             true,
	}
	camps.camps[camp.ID.String()] = camp

	link := &models.RegistrationLink{
		ID:        uuid.New(),
		CampID:    camp.ID,
		LinkToken: "sum_abcdef123456",
		Name:      "Summer Link",
		IsActive:  true,
	}
	links.links[link.ID.String()] = link

	t.Run("valid link", func(t *testing.T) {
		status, err := svc.CheckLink(link.LinkToken)
		if err != nil {
			t.Fatalf("CheckLink() error = %v", err)
		}
		if !status.IsValid {
			t.Error("status.IsValid = false, want true")
		}
		if status.CampName != camp.Name {
			t.Errorf("camp name = %q, want %q", status.CampName, camp.Name)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.CheckLink("bad_000000000000")
		assertCode(t, err, "INVALID_LINK")
	})

	t.Run("deadline passed invalidates link", func(t *testing.T) {
		camp.RegistrationDeadline = time.Now().UTC().Add(-time.Hour)
		defer func() { camp.RegistrationDeadline = time.Now().UTC().Add(7 * 24 * time.Hour) }()

		status, err := svc.CheckLink(link.LinkToken)
		if err != nil {
			t.Fatalf("CheckLink() error = %v", err)
		}
		if status.IsValid {
			t.Error("status.IsValid = true after deadline, want false")
		}
	})

	t.Run("full camp invalidates link", func(t *testing.T) {
		camp.Capacity = 1
		defer func() { camp.Capacity = 10 }()
		registration := &models.Registration{ID: uuid.New(), CampID: camp.ID, CamperCode: "AAA111"}
		regs.registrations[registration.ID.String()] = registration
		defer delete(regs.registrations, registration.ID.String())

		status, err := svc.CheckLink(link.LinkToken)
		if err != nil {
			t.Fatalf("CheckLink() error = %v", err)
		}
		if status.IsValid {
			t.Error("status.IsValid = true at capacity, want false")
		}
		if status.CurrentRegistrations != 1 {
			t.Errorf("current registrations = %d, want 1", status.CurrentRegistrations)
		}
	})
}

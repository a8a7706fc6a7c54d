package services

import (
	"testing"
	"time"

	"camp-management-backend/internal/repositories"

	"github.com/google/uuid"
)

func newCampService() (*CampService, *fakeCampRepo) {
	camps := newFakeCampRepo()
	repo := &repositories.Repository{CampRepo: camps}
	return NewCampService(repo), camps
}

func validCampRequest() CreateCampRequest {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return CreateCampRequest{
		Name:                 "Easter Camp",
		StartDate:            start,
		EndDate:              start.Add(5 * 24 * time.Hour),
		Location:             "Accra",
		BaseFee:              150,
		Capacity:             200,
		RegistrationDeadline: start.Add(-7 * 24 * time.Hour),
		ManagerID:            uuid.New().String(),
	}
}

func TestCreateCampValidation(t *testing.T) {
	svc, _ := newCampService()

	tests := []struct {
		name   string
		mutate func(*CreateCampRequest)
	}{
		{"end before start", func(r *CreateCampRequest) { r.EndDate = r.StartDate.Add(-time.Hour) }},
		{"end equals start", func(r *CreateCampRequest) { r.EndDate = r.StartDate }},
		{"deadline after start", func(r *CreateCampRequest) { r.RegistrationDeadline = r.StartDate.Add(time.Hour) }},
		{"negative base fee", func(r *CreateCampRequest) { r.BaseFee = -1 }},
		{"zero capacity", func(r *CreateCampRequest) { r.Capacity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCampRequest()
			tt.mutate(&req)
			if _, err := svc.CreateCamp(req); err == nil {
				t.Error("CreateCamp() expected validation error, got nil")
			}
		})
	}
}

func TestCreateCampSuccess(t *testing.T) {
	svc, camps := newCampService()

	camp, err := svc.CreateCamp(validCampRequest())
	if err != nil {
		t.Fatalf("CreateCamp() error = %v", err)
	}
	if !camp.IsActive {
		t.Error("new camp should be active")
	}
	if _, ok := camps.camps[camp.ID.String()]; !ok {
		t.Error("camp not persisted")
	}
}

func TestCreateCategoryDiscountRules(t *testing.T) {
	svc, _ := newCampService()
	campID := uuid.New().String()

	tests := []struct {
		name    string
		req     CategoryRequest
		wantErr bool
	}{
		{
			name:    "percentage only",
			req:     CategoryRequest{Name: "Student", CampID: campID, DiscountPercentage: 20},
			wantErr: false,
		},
		{
			name:    "amount only",
			req:     CategoryRequest{Name: "Staff", CampID: campID, DiscountAmount: 50},
			wantErr: false,
		},
		{
			name:    "both discounts rejected",
			req:     CategoryRequest{Name: "Bad", CampID: campID, DiscountPercentage: 20, DiscountAmount: 50},
			wantErr: true,
		},
		{
			name:    "percentage over 100 rejected",
			req:     CategoryRequest{Name: "Bad", CampID: campID, DiscountPercentage: 150},
			wantErr: true,
		},
		{
			name:    "empty name rejected",
			req:     CategoryRequest{Name: "  ", CampID: campID},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCategory(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateCategory() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

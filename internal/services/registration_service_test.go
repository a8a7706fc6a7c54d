package services

import (
	"regexp"
	"testing"
	"time"

	"camp-management-backend/internal/apperr"
	"camp-management-backend/internal/config"
	"camp-management-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// === In-memory fakes ===

type fakeCampRepo struct {
	camps      map[string]*models.Camp
	churches   map[string]*models.Church
	categories map[string]*models.Category
	fields     map[string]*models.CustomField
}

func newFakeCampRepo() *fakeCampRepo {
	return &fakeCampRepo{
		camps:      make(map[string]*models.Camp),
		churches:   make(map[string]*models.Church),
		categories: make(map[string]*models.Category),
		fields:     make(map[string]*models.CustomField),
	}
}

func (f *fakeCampRepo) CreateCamp(camp *models.Camp, managerID string) error {
	f.camps[camp.ID.String()] = camp
	return nil
}

func (f *fakeCampRepo) GetCampByID(id string) (*models.Camp, error) {
	camp, ok := f.camps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return camp, nil
}

func (f *fakeCampRepo) GetActiveCampByID(id string) (*models.Camp, error) {
	camp, ok := f.camps[id]
	if !ok || !camp.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return camp, nil
}

func (f *fakeCampRepo) GetCampsByUser(userID string) ([]models.Camp, error) { return nil, nil }

func (f *fakeCampRepo) UpdateCamp(camp *models.Camp) error { return nil }

func (f *fakeCampRepo) DeleteCamp(id string) error { return nil }

func (f *fakeCampRepo) IsCampManager(userID, campID string) (bool, error) { return true, nil }

func (f *fakeCampRepo) CreateChurch(church *models.Church) error {
	f.churches[church.ID.String()] = church
	return nil
}

func (f *fakeCampRepo) GetChurchByID(id string) (*models.Church, error) {
	church, ok := f.churches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return church, nil
}

func (f *fakeCampRepo) FindChurch(name, district, area, campID string) (*models.Church, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCampRepo) GetChurchesByCamp(campID string) ([]models.Church, error) {
	var churches []models.Church
	for _, church := range f.churches {
		if church.CampID.String() == campID {
			churches = append(churches, *church)
		}
	}
	return churches, nil
}

func (f *fakeCampRepo) UpdateChurch(church *models.Church) error { return nil }

func (f *fakeCampRepo) DeleteChurch(id string) error { return nil }

func (f *fakeCampRepo) CountChurchRegistrations(churchID string) (int64, error) { return 0, nil }

func (f *fakeCampRepo) CreateCategory(category *models.Category) error {
	f.categories[category.ID.String()] = category
	return nil
}

func (f *fakeCampRepo) GetCategoryByID(id string) (*models.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (f *fakeCampRepo) GetCategoryByName(name, campID string) (*models.Category, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCampRepo) GetCategoriesByCamp(campID string) ([]models.Category, error) {
	var categories []models.Category
	for _, category := range f.categories {
		if category.CampID.String() == campID {
			categories = append(categories, *category)
		}
	}
	return categories, nil
}

func (f *fakeCampRepo) GetCategoriesByIDs(campID string, ids []string) ([]models.Category, error) {
	var categories []models.Category
	for _, id := range ids {
		if category, ok := f.categories[id]; ok && category.CampID.String() == campID {
			categories = append(categories, *category)
		}
	}
	return categories, nil
}

func (f *fakeCampRepo) UpdateCategory(category *models.Category) error { return nil }

func (f *fakeCampRepo) DeleteCategory(id string) error { return nil }

func (f *fakeCampRepo) CountCategoryRegistrations(categoryID string) (int64, error) { return 0, nil }

func (f *fakeCampRepo) CreateCustomField(field *models.CustomField) error {
	f.fields[field.ID.String()] = field
	return nil
}

func (f *fakeCampRepo) GetCustomFieldByID(id string) (*models.CustomField, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCampRepo) GetCustomFieldsByCamp(campID string) ([]models.CustomField, error) {
	var fields []models.CustomField
	for _, field := range f.fields {
		if field.CampID.String() == campID {
			fields = append(fields, *field)
		}
	}
	return fields, nil
}

func (f *fakeCampRepo) UpdateCustomField(field *models.CustomField) error { return nil }

func (f *fakeCampRepo) DeleteCustomField(id string) error { return nil }

type fakeLinkRepo struct {
	links map[string]*models.RegistrationLink // keyed by ID
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[string]*models.RegistrationLink)}
}

func (f *fakeLinkRepo) CreateLink(link *models.RegistrationLink) error {
	f.links[link.ID.String()] = link
	return nil
}

func (f *fakeLinkRepo) GetLinkByID(id string) (*models.RegistrationLink, error) {
	link, ok := f.links[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return link, nil
}

func (f *fakeLinkRepo) GetLinkByToken(token string) (*models.RegistrationLink, error) {
	for _, link := range f.links {
		if link.LinkToken == token {
			return link, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLinkRepo) GetLinksByCamp(campID string) ([]models.RegistrationLink, error) {
	return nil, nil
}

func (f *fakeLinkRepo) UpdateLink(link *models.RegistrationLink) error { return nil }

func (f *fakeLinkRepo) DeleteLink(id string) error { return nil }
func (f *fakeLinkRepo) CountLinkRegistrations(linkID string) (int64, error) {
	return 0, nil
}

type fakeRegistrationRepo struct {
	registrations map[string]*models.Registration
	camps         *fakeCampRepo
	links         *fakeLinkRepo
}

func newFakeRegistrationRepo(camps *fakeCampRepo, links *fakeLinkRepo) *fakeRegistrationRepo {
	return &fakeRegistrationRepo{
		registrations: make(map[string]*models.Registration),
		camps:         camps,
		links:         links,
	}
}

func (f *fakeRegistrationRepo) AdmitRegistration(registration *models.Registration, link *models.RegistrationLink) error {
	camp, ok := f.camps.camps[registration.CampID.String()]
	if !ok {
		return apperr.ErrCampNotFound
	}

	count, _ := f.CountRegistrationsByCamp(registration.CampID.String())
	if count >= int64(camp.Capacity) {
		return apperr.ErrCapacityExceeded
	}

	if link != nil {
		if link.UsageLimit != nil && link.UsageCount >= *link.UsageLimit {
			return apperr.ErrLinkExpired
		}
		link.UsageCount++
	}

	f.registrations[registration.ID.String()] = registration
	return nil
}

func (f *fakeRegistrationRepo) CancelRegistration(registration *models.Registration) error {
	if _, ok := f.registrations[registration.ID.String()]; !ok {
		return apperr.ErrRegistrationMissing
	}
	delete(f.registrations, registration.ID.String())

	if registration.RegistrationLinkID != nil {
		if link, ok := f.links.links[registration.RegistrationLinkID.String()]; ok && link.UsageCount > 0 {
			link.UsageCount--
		}
	}
	return nil
}

func (f *fakeRegistrationRepo) GetRegistrationByID(id string) (*models.Registration, error) {
	registration, ok := f.registrations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return registration, nil
}

func (f *fakeRegistrationRepo) GetRegistrationsByCamp(campID string) ([]models.Registration, error) {
	var registrations []models.Registration
	for _, registration := range f.registrations {
		if registration.CampID.String() == campID {
			registrations = append(registrations, *registration)
		}
	}
	return registrations, nil
}

func (f *fakeRegistrationRepo) ListRegistrationsByCamp(campID string, offset, limit int) ([]models.Registration, int64, error) {
	registrations, _ := f.GetRegistrationsByCamp(campID)
	return registrations, int64(len(registrations)), nil
}

func (f *fakeRegistrationRepo) CountRegistrationsByCamp(campID string) (int64, error) {
	var count int64
	for _, registration := range f.registrations {
		if registration.CampID.String() == campID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRegistrationRepo) GetCamperCodesByCamp(campID string) ([]string, error) {
	var codes []string
	for _, registration := range f.registrations {
		if registration.CampID.String() == campID {
			codes = append(codes, registration.CamperCode)
		}
	}
	return codes, nil
}

func (f *fakeRegistrationRepo) UpdateRegistration(registration *models.Registration) error {
	f.registrations[registration.ID.String()] = registration
	return nil
}

// === Test environment ===

type testEnv struct {
	svc      *RegistrationService
	camps    *fakeCampRepo
	links    *fakeLinkRepo
	regs     *fakeRegistrationRepo
	camp     *models.Camp
	church   *models.Church
	category *models.Category
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	camps := newFakeCampRepo()
	links := newFakeLinkRepo()
	regs := newFakeRegistrationRepo(camps, links)

	camp := &models.Camp{
		ID:                   uuid.New(),
		Name:                 "Summer Camp",
		BaseFee:              100,
		Capacity:             50,
		RegistrationDeadline: time.Now().UTC().Add(30 * 24 * time.Hour),
		IsActive:             true,
	}
	camps.camps[camp.ID.String()] = camp

	church := &models.Church{ID: uuid.New(), Name: "Central", CampID: camp.ID}
	camps.churches[church.ID.String()] = church

	category := &models.Category{ID: uuid.New(), Name: "Adult", CampID: camp.ID}
	camps.categories[category.ID.String()] = category

	cfg := &config.Config{CodeAttempts: 50, QRDir: t.TempDir()}
	svc := NewRegistrationService(camps, links, regs, nil, cfg)

	return &testEnv{
		svc:      svc,
		camps:    camps,
		links:    links,
		regs:     regs,
		camp:     camp,
		church:   church,
		category: category,
	}
}

func (e *testEnv) request() RegistrationRequest {
	return RegistrationRequest{
		CampID:      e.camp.ID.String(),
		Surname:     "Mensah",
		LastName:    "Kofi",
		Age:         25,
		PhoneNumber: "0241234567",
		ChurchID:    e.church.ID.String(),
		CategoryID:  e.category.ID.String(),
	}
}

func (e *testEnv) addLink(allowed []string, usageLimit *int, usageCount int) *models.RegistrationLink {
	link := &models.RegistrationLink{
		ID:                uuid.New(),
		CampID:            e.camp.ID,
		LinkToken:         "you_abc123def456",
		Name:              "Youth Link",
		AllowedCategories: allowed,
		IsActive:          true,
		UsageLimit:        usageLimit,
		UsageCount:        usageCount,
	}
	e.links.links[link.ID.String()] = link
	return link
}

func assertCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	appErr, ok := apperr.As(err)
	if !ok {
		t.Fatalf("error = %v, want *apperr.Error with code %s", err, wantCode)
	}
	if appErr.Code != wantCode {
		t.Fatalf("error code = %s, want %s", appErr.Code, wantCode)
	}
}

// === Tests ===

func TestCreateRegistrationSuccess(t *testing.T) {
	env := newTestEnv(t)

	registration, err := env.svc.CreateRegistration(env.request(), "")
	if err != nil {
		t.Fatalf("CreateRegistration() error = %v", err)
	}

	if matched := regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`).MatchString(registration.CamperCode); !matched {
		t.Errorf("camper code = %q, want AAA000 format", registration.CamperCode)
	}
	if registration.TotalAmount != 100 {
		t.Errorf("total amount = %v, want 100", registration.TotalAmount)
	}
	if registration.RegistrationLinkID != nil {
		t.Error("registration link ID set for general registration")
	}
	if _, err := env.regs.GetRegistrationByID(registration.ID.String()); err != nil {
		t.Error("registration not persisted")
	}
}

func TestCreateRegistrationCampNotFound(t *testing.T) {
	env := newTestEnv(t)

	req := env.request()
	req.CampID = uuid.New().String()

	_, err := env.svc.CreateRegistration(req, "")
	assertCode(t, err, "CAMP_NOT_FOUND")
}

func TestCreateRegistrationInactiveCamp(t *testing.T) {
	env := newTestEnv(t)
	env.camp.IsActive = false

	_, err := env.svc.CreateRegistration(env.request(), "")
	assertCode(t, err, "CAMP_NOT_FOUND")
}

func TestCreateRegistrationDeadlinePassed(t *testing.T) {
	env := newTestEnv(t)
	env.camp.RegistrationDeadline = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := env.svc.CreateRegistration(env.request(), "")
	assertCode(t, err, "DEADLINE_PASSED")
}

func TestCreateRegistrationCapacityExceeded(t *testing.T) {
	env := newTestEnv(t)
	env.camp.Capacity = 1

	if _, err := env.svc.CreateRegistration(env.request(), ""); err != nil {
		t.Fatalf("first registration error = %v", err)
	}

	_, err := env.svc.CreateRegistration(env.request(), "")
	assertCode(t, err, "CAPACITY_EXCEEDED")

	count, _ := env.regs.CountRegistrationsByCamp(env.camp.ID.String())
	if count != 1 {
		t.Errorf("registration count = %d, want 1", count)
	}
}

func TestCreateRegistrationInvalidChurch(t *testing.T) {
	env := newTestEnv(t)

	// Church belonging to a different camp
	foreign := &models.Church{ID: uuid.New(), Name: "Elsewhere", CampID: uuid.New()}
	env.camps.churches[foreign.ID.String()] = foreign

	req := env.request()
	req.ChurchID = foreign.ID.String()

	_, err := env.svc.CreateRegistration(req, "")
	assertCode(t, err, "INVALID_CHURCH")
}

func TestCreateRegistrationInvalidCategory(t *testing.T) {
	env := newTestEnv(t)

	req := env.request()
	req.CategoryID = uuid.New().String()

	_, err := env.svc.CreateRegistration(req, "")
	assertCode(t, err, "INVALID_CATEGORY")
}

func TestCreateRegistrationWithLink(t *testing.T) {
	env := newTestEnv(t)
	limit := 5
	link := env.addLink([]string{env.category.ID.String()}, &limit, 0)

	registration, err := env.svc.CreateRegistration(env.request(), link.LinkToken)
	if err != nil {
		t.Fatalf("CreateRegistration() error = %v", err)
	}

	if registration.RegistrationLinkID == nil || *registration.RegistrationLinkID != link.ID {
		t.Error("registration not tied to link")
	}
	if link.UsageCount != 1 {
		t.Errorf("link usage count = %d, want 1", link.UsageCount)
	}
}

func TestCreateRegistrationUnknownLink(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateRegistration(env.request(), "nope_000000000000")
	assertCode(t, err, "INVALID_LINK")
}

func TestCreateRegistrationLinkForOtherCamp(t *testing.T) {
	env := newTestEnv(t)
	link := env.addLink([]string{env.category.ID.String()}, nil, 0)
	link.CampID = uuid.New()

	_, err := env.svc.CreateRegistration(env.request(), link.LinkToken)
	assertCode(t, err, "INVALID_LINK")
}

func TestCreateRegistrationLinkAtUsageLimit(t *testing.T) {
	env := newTestEnv(t)
	limit := 1
	link := env.addLink([]string{env.category.ID.String()}, &limit, 1)

	_, err := env.svc.CreateRegistration(env.request(), link.LinkToken)
	assertCode(t, err, "LINK_EXPIRED")
}

func TestCreateRegistrationLinkExpiredByTime(t *testing.T) {
	env := newTestEnv(t)
	link := env.addLink([]string{env.category.ID.String()}, nil, 0)
	past := time.Now().UTC().Add(-time.Hour)
	link.ExpiresAt = &past

	_, err := env.svc.CreateRegistration(env.request(), link.LinkToken)
	assertCode(t, err, "LINK_EXPIRED")
}

func TestCreateRegistrationCategoryNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	other := &models.Category{ID: uuid.New(), Name: "Youth", CampID: env.camp.ID}
	env.camps.categories[other.ID.String()] = other

	// Link only allows the other category
	link := env.addLink([]string{other.ID.String()}, nil, 0)

	_, err := env.svc.CreateRegistration(env.request(), link.LinkToken)
	assertCode(t, err, "CATEGORY_NOT_ALLOWED")

	// The rejection must leave no trace
	count, _ := env.regs.CountRegistrationsByCamp(env.camp.ID.String())
	if count != 0 {
		t.Errorf("registration count = %d, want 0", count)
	}
	if link.UsageCount != 0 {
		t.Errorf("link usage count = %d, want 0", link.UsageCount)
	}
}

func TestCancelRegistrationReleasesLinkSlot(t *testing.T) {
	env := newTestEnv(t)
	limit := 10
	link := env.addLink([]string{env.category.ID.String()}, &limit, 2)

	registration, err := env.svc.CreateRegistration(env.request(), link.LinkToken)
	if err != nil {
		t.Fatalf("CreateRegistration() error = %v", err)
	}
	if link.UsageCount != 3 {
		t.Fatalf("link usage count = %d, want 3", link.UsageCount)
	}

	if err := env.svc.CancelRegistration(registration.ID.String()); err != nil {
		t.Fatalf("CancelRegistration() error = %v", err)
	}
	if link.UsageCount != 2 {
		t.Errorf("link usage count after cancel = %d, want 2", link.UsageCount)
	}

	err = env.svc.CancelRegistration(registration.ID.String())
	assertCode(t, err, "REGISTRATION_NOT_FOUND")
}

func TestUpdateRegistrationRepricesOnCategoryChange(t *testing.T) {
	env := newTestEnv(t)

	discounted := &models.Category{
		ID:                 uuid.New(),
		Name:               "Student",
		CampID:             env.camp.ID,
		DiscountPercentage: 20,
	}
	env.camps.categories[discounted.ID.String()] = discounted

	registration, err := env.svc.CreateRegistration(env.request(), "")
	if err != nil {
		t.Fatalf("CreateRegistration() error = %v", err)
	}
	if registration.TotalAmount != 100 {
		t.Fatalf("initial total = %v, want 100", registration.TotalAmount)
	}

	categoryID := discounted.ID.String()
	updated, err := env.svc.UpdateRegistration(registration.ID.String(), UpdateRegistrationRequest{
		CategoryID: &categoryID,
	})
	if err != nil {
		t.Fatalf("UpdateRegistration() error = %v", err)
	}
	if updated.TotalAmount != 80 {
		t.Errorf("total after category change = %v, want 80", updated.TotalAmount)
	}

	// Unrelated edits keep the price
	surname := "Owusu"
	updated, err = env.svc.UpdateRegistration(registration.ID.String(), UpdateRegistrationRequest{
		Surname: &surname,
	})
	if err != nil {
		t.Fatalf("UpdateRegistration() error = %v", err)
	}
	if updated.TotalAmount != 80 {
		t.Errorf("total after surname edit = %v, want 80", updated.TotalAmount)
	}
	if updated.Surname != "Owusu" {
		t.Errorf("surname = %q, want Owusu", updated.Surname)
	}
}

func TestCreateRegistrationAssignsUniqueCodes(t *testing.T) {
	env := newTestEnv(t)

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		registration, err := env.svc.CreateRegistration(env.request(), "")
		if err != nil {
			t.Fatalf("CreateRegistration() #%d error = %v", i, err)
		}
		if _, dup := seen[registration.CamperCode]; dup {
			t.Fatalf("duplicate camper code %q", registration.CamperCode)
		}
		seen[registration.CamperCode] = struct{}{}
	}
}

func TestGetRegistrationForm(t *testing.T) {
	env := newTestEnv(t)

	other := &models.Category{ID: uuid.New(), Name: "Youth", CampID: env.camp.ID}
	env.camps.categories[other.ID.String()] = other

	t.Run("general form lists all categories", func(t *testing.T) {
		form, err := env.svc.GetRegistrationForm(env.camp.ID.String(), "")
		if err != nil {
			t.Fatalf("GetRegistrationForm() error = %v", err)
		}
		if form.LinkType != "general" {
			t.Errorf("link type = %q, want general", form.LinkType)
		}
		if len(form.Categories) != 2 {
			t.Errorf("categories = %d, want 2", len(form.Categories))
		}
	})

	t.Run("link form collapses to allowed categories", func(t *testing.T) {
		link := env.addLink([]string{other.ID.String()}, nil, 0)

		form, err := env.svc.GetRegistrationForm(env.camp.ID.String(), link.LinkToken)
		if err != nil {
			t.Fatalf("GetRegistrationForm() error = %v", err)
		}
		if form.LinkType != "category_specific" {
			t.Errorf("link type = %q, want category_specific", form.LinkType)
		}
		if len(form.Categories) != 1 || form.Categories[0].ID != other.ID {
			t.Errorf("categories = %+v, want only the allowed one", form.Categories)
		}
	})

	t.Run("unknown camp", func(t *testing.T) {
		_, err := env.svc.GetRegistrationForm(uuid.New().String(), "")
		assertCode(t, err, "CAMP_NOT_FOUND")
	})
}

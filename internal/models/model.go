package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null;default:'volunteer'" json:"role"` // camp_manager|volunteer
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Camp struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name                 string    `gorm:"not null" json:"name"`
	StartDate            time.Time `gorm:"not null" json:"start_date"`
	EndDate              time.Time `gorm:"not null" json:"end_date"`
	Location             string    `gorm:"not null" json:"location"`
	BaseFee              float64   `gorm:"type:numeric(10,2);not null" json:"base_fee"`
	Capacity             int       `gorm:"not null" json:"capacity"`
	Description          string    `gorm:"type:text" json:"description"`
	RegistrationDeadline time.Time `gorm:"not null" json:"registration_deadline"`
	IsActive             bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	// Relations; the camp is the root aggregate, everything below goes with it
	Churches          []Church           `gorm:"foreignKey:CampID;constraint:OnDelete:CASCADE" json:"churches,omitempty"`
	Categories        []Category         `gorm:"foreignKey:CampID;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	CustomFields      []CustomField      `gorm:"foreignKey:CampID;constraint:OnDelete:CASCADE" json:"custom_fields,omitempty"`
	Registrations     []Registration     `gorm:"foreignKey:CampID;constraint:OnDelete:CASCADE" json:"registrations,omitempty"`
	RegistrationLinks []RegistrationLink `gorm:"foreignKey:CampID;constraint:OnDelete:CASCADE" json:"registration_links,omitempty"`
}

type CampWorker struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CampID    uuid.UUID `gorm:"type:uuid;index;not null" json:"camp_id"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role"` // camp_manager|volunteer
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Camp Camp `gorm:"foreignKey:CampID;constraint:OnDelete:CASCADE" json:"camp,omitempty"`
}

type Church struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_church_identity" json:"name"`
	District  string    `gorm:"uniqueIndex:idx_church_identity" json:"district"`
	Area      string    `gorm:"uniqueIndex:idx_church_identity" json:"area"`
	CampID    uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_church_identity" json:"camp_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Registrations []Registration `gorm:"foreignKey:ChurchID" json:"registrations,omitempty"`
}

type Category struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name               string    `gorm:"not null;uniqueIndex:idx_category_name_camp" json:"name"`
	DiscountPercentage float64   `gorm:"type:numeric(5,2);default:0" json:"discount_percentage"`
	DiscountAmount     float64   `gorm:"type:numeric(10,2);default:0" json:"discount_amount"`
	CampID             uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_category_name_camp" json:"camp_id"`
	IsDefault          bool      `gorm:"default:false;not null" json:"is_default"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Registrations []Registration `gorm:"foreignKey:CategoryID" json:"registrations,omitempty"`
}

type CustomField struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FieldName  string    `gorm:"not null;uniqueIndex:idx_field_name_camp" json:"field_name"`
	FieldType  string    `gorm:"type:varchar(20);not null" json:"field_type"` // text|number|dropdown|checkbox|date
	IsRequired bool      `gorm:"default:false;not null" json:"is_required"`
	Options    []string  `gorm:"serializer:json" json:"options"` // dropdown/checkbox choices
	CampID     uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_field_name_camp" json:"camp_id"`
	Order      int       `gorm:"default:0;not null" json:"order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type RegistrationLink struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CampID            uuid.UUID  `gorm:"type:uuid;index;not null" json:"camp_id"`
	LinkToken         string     `gorm:"uniqueIndex;not null" json:"link_token"`
	Name              string     `gorm:"not null" json:"name"`
	AllowedCategories []string   `gorm:"serializer:json" json:"allowed_categories"` // category UUIDs
	IsActive          bool       `gorm:"default:true;not null" json:"is_active"`
	ExpiresAt         *time.Time `json:"expires_at"`
	UsageLimit        *int       `json:"usage_limit"` // nil = unlimited
	UsageCount        int        `gorm:"default:0;not null" json:"usage_count"`
	CreatedBy         uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Registrations []Registration `gorm:"foreignKey:RegistrationLinkID" json:"registrations,omitempty"`
}

// IsValid reports whether the link can still admit registrations at the given
// time: active, not expired, and under its usage cap. It only reads link state;
// the commit-time usage guard lives in the repository.
func (l *RegistrationLink) IsValid(now time.Time) bool {
	if !l.IsActive {
		return false
	}
	if l.ExpiresAt != nil && !now.Before(*l.ExpiresAt) {
		return false
	}
	if l.UsageLimit != nil && l.UsageCount >= *l.UsageLimit {
		return false
	}
	return true
}

// AllowsCategory reports whether the category is in the link's allowed set.
func (l *RegistrationLink) AllowsCategory(categoryID string) bool {
	for _, id := range l.AllowedCategories {
		if id == categoryID {
			return true
		}
	}
	return false
}

type Registration struct {
	ID                    uuid.UUID              `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Surname               string                 `gorm:"not null" json:"surname"`
	MiddleName            string                 `gorm:"default:''" json:"middle_name"`
	LastName              string                 `gorm:"not null" json:"last_name"`
	Age                   int                    `gorm:"not null" json:"age"`
	Email                 string                 `json:"email"`
	PhoneNumber           string                 `gorm:"type:varchar(20);not null" json:"phone_number"`
	EmergencyContactName  string                 `gorm:"not null" json:"emergency_contact_name"`
	EmergencyContactPhone string                 `gorm:"type:varchar(20);not null" json:"emergency_contact_phone"`
	ChurchID              uuid.UUID              `gorm:"type:uuid;not null" json:"church_id"`
	CategoryID            uuid.UUID              `gorm:"type:uuid;not null" json:"category_id"`
	CustomFieldResponses  map[string]interface{} `gorm:"serializer:json" json:"custom_field_responses"`
	TotalAmount           float64                `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	HasPaid               bool                   `gorm:"default:false;not null" json:"has_paid"`
	HasCheckedIn          bool                   `gorm:"default:false;not null" json:"has_checked_in"`
	CampID                uuid.UUID              `gorm:"type:uuid;index;not null;uniqueIndex:idx_camp_camper_code" json:"camp_id"`
	CamperCode            string                 `gorm:"type:varchar(10);uniqueIndex:idx_camp_camper_code" json:"camper_code"`
	QRPath                string                 `json:"qr_path"`
	RegistrationLinkID    *uuid.UUID             `gorm:"type:uuid" json:"registration_link_id"`
	RegistrationDate      time.Time              `gorm:"not null" json:"registration_date"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`

	// Relations
	Camp             Camp              `gorm:"foreignKey:CampID;constraint:OnDelete:CASCADE" json:"camp,omitempty"`
	Church           Church            `gorm:"foreignKey:ChurchID" json:"church,omitempty"`
	Category         Category          `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	RegistrationLink *RegistrationLink `gorm:"foreignKey:RegistrationLinkID" json:"registration_link,omitempty"`
}

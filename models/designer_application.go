package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// DesignerApplication is a submitted onboarding form. Field groups follow the
// seven steps of the form.
type DesignerApplication struct {
	ID     uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Status ApplicationStatus `gorm:"default:pending;index" json:"status"`

	// Step 1
	FullName     string `gorm:"not null" json:"fullName"`
	BusinessName string `gorm:"not null;index" json:"businessName"`
	Email        string `gorm:"not null;index" json:"email"`
	Phone        string `gorm:"not null" json:"phone"`
	Website      string `json:"website"`
	SocialInsta  string `json:"socialInsta"`
	SocialFb     string `json:"socialFb"`
	Address      string `gorm:"not null" json:"address"`
	Country      string `gorm:"not null" json:"country"`

	// Step 2
	ProductTypes             []string `gorm:"serializer:json" json:"productTypes"`
	ProductTypesOthers       string   `json:"productTypesOthers"`
	TargetAudience           string   `json:"targetAudience"`
	YearsInBusiness          string   `json:"yearsInBusiness"`
	BriefBusinessDescription string   `json:"briefBusinessDescription"`

	// Step 3
	CategoriesProducts      []string `gorm:"serializer:json" json:"categoriesProducts"`
	PriceRange              string   `json:"priceRange"`
	MaterialsUsed           string   `json:"materialsUsed"`
	SustainabilityPractices string   `json:"sustainabilityPractices"`
	USP                     string   `json:"usp"`
	CertificationsAwards    string   `json:"certificationsAwards"`

	// Step 4
	PreferredCollaborationTypes []string `gorm:"serializer:json" json:"preferredCollaborationTypes"`
	PreferredMarket             string   `json:"preferredMarket"`
	Availability                string   `json:"availability"`
	LogisticsShipping           string   `json:"logisticsShipping"`

	// Step 5
	BusinessRegNumber string `json:"businessRegNumber"`
	TaxNumber         string `json:"taxNumber"`
	BankingInfo       string `json:"-"`
	IPDetails         string `json:"ipDetails"`

	// Step 6
	Inspiration  string `json:"inspiration"`
	Expectations string `json:"expectations"`

	// Step 7
	Agreement     bool   `json:"agreement"`
	Signature     string `json:"signature"`
	SignatureDate string `json:"signatureDate"`

	Attachments []ApplicationAttachment `gorm:"foreignKey:ApplicationID" json:"attachments,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	DeletedAt   gorm.DeletedAt          `gorm:"index" json:"-"`
}

type ApplicationAttachment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;index" json:"application_id"`
	Kind          string    `gorm:"not null" json:"kind"` // productCatalog, registrationProof, authenticityCert
	FileName      string    `json:"file_name"`
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	URL           string    `gorm:"not null" json:"url"`
	CreatedAt     time.Time `json:"created_at"`
}

func (a *DesignerApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = ApplicationPending
	}
	return nil
}

func (a *ApplicationAttachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsValidApplicationStatus reports whether s is a known review state.
func IsValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

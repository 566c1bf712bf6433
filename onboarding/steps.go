// Package onboarding validates the designer onboarding form, one step at a
// time.
package onboarding

import (
	"regexp"
	"strings"
)

const TotalSteps = 7

const defaultFolder = "Unknown-Designer"

// AttachmentFields are the upload slots of the form, filled in step 6.
var AttachmentFields = []string{"productCatalog", "registrationProof", "authenticityCert"}

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Form carries every field of the seven steps.
type Form struct {
	// Step 1
	FullName     string `json:"fullName"`
	BusinessName string `json:"businessName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Website      string `json:"website"`
	SocialInsta  string `json:"socialInsta"`
	SocialFb     string `json:"socialFb"`
	Address      string `json:"address"`
	Country      string `json:"country"`
	// Step 2
	ProductTypes             []string `json:"productTypes"`
	ProductTypesOthers       string   `json:"productTypesOthers"`
	TargetAudience           string   `json:"targetAudience"`
	YearsInBusiness          string   `json:"yearsInBusiness"`
	BriefBusinessDescription string   `json:"briefBusinessDescription"`
	// Step 3
	CategoriesProducts      []string `json:"categoriesProducts"`
	PriceRange              string   `json:"priceRange"`
	MaterialsUsed           string   `json:"materialsUsed"`
	SustainabilityPractices string   `json:"sustainabilityPractices"`
	USP                     string   `json:"usp"`
	CertificationsAwards    string   `json:"certificationsAwards"`
	// Step 4
	PreferredCollaborationTypes []string `json:"preferredCollaborationTypes"`
	PreferredMarket             string   `json:"preferredMarket"`
	Availability                string   `json:"availability"`
	LogisticsShipping           string   `json:"logisticsShipping"`
	// Step 5
	BusinessRegNumber string `json:"businessRegNumber"`
	TaxNumber         string `json:"taxNumber"`
	BankingInfo       string `json:"bankingInfo"`
	IPDetails         string `json:"ipDetails"`
	// Step 6
	Inspiration  string `json:"inspiration"`
	Expectations string `json:"expectations"`
	// Step 7
	Agreement     bool   `json:"agreement"`
	Signature     string `json:"signature"`
	SignatureDate string `json:"signatureDate"`
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidStep reports whether step is within the form.
func ValidStep(step int) bool {
	return step >= 1 && step <= TotalSteps
}

// ValidateStep returns field errors keyed by the form's field names. Steps
// without mandatory fields always pass.
func ValidateStep(step int, f Form) map[string]string {
	errs := map[string]string{}

	switch step {
	case 1:
		if blank(f.FullName) {
			errs["fullName"] = "Full Name is required."
		}
		if blank(f.BusinessName) {
			errs["businessName"] = "Business Name is required."
		}
		if blank(f.Email) {
			errs["email"] = "Email address is required."
		} else if !emailPattern.MatchString(f.Email) {
			errs["email"] = "Please enter a valid email address."
		}
		if blank(f.Phone) {
			errs["phone"] = "Phone number is required."
		}
		if blank(f.Address) {
			errs["address"] = "Business address is required."
		}
		if blank(f.Country) {
			errs["country"] = "Country is required."
		}
	case 7:
		if !f.Agreement {
			errs["agreement"] = "You must accept the agreement to continue."
		}
		if blank(f.Signature) {
			errs["signature"] = "Signature is required."
		}
	}

	return errs
}

// ValidateAll runs every step, as done on final submission.
func ValidateAll(f Form) map[string]string {
	errs := map[string]string{}
	for step := 1; step <= TotalSteps; step++ {
		for field, msg := range ValidateStep(step, f) {
			errs[field] = msg
		}
	}
	return errs
}

// FolderName is the storage folder the application's files are filed under.
func FolderName(f Form) string {
	if blank(f.BusinessName) {
		return defaultFolder
	}
	return strings.TrimSpace(f.BusinessName)
}

// IsAttachmentField reports whether name is one of the upload slots.
func IsAttachmentField(name string) bool {
	for _, f := range AttachmentFields {
		if f == name {
			return true
		}
	}
	return false
}

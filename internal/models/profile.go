package models

import "html/template"

// CompanyProfile is one saved company identity selectable per quote.
// Profiles are persisted as a JSON array in a single storage slot, so the
// struct carries json tags rather than gorm column tags.
type CompanyProfile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Tagline       string `json:"tagline"`
	Address       string `json:"address"`
	VATNumber     string `json:"vatNumber"`
	CRNumber      string `json:"crNumber"`
	ContactPerson string `json:"contactPerson"`
	BankDetails   string `json:"bankDetails"`
	// LogoBase64 holds an embedded logo as a data URL; empty means the
	// profile renders without an image block.
	LogoBase64 string `json:"logoBase64,omitempty"`
	// PrimaryColor is the brand accent color as a hex string (e.g. #4f46e5).
	PrimaryColor string `json:"primaryColor"`
}

// HasLogo reports whether the profile carries an embedded logo image.
func (p CompanyProfile) HasLogo() bool { return p.LogoBase64 != "" }

// LogoURL exposes the embedded logo as a pre-trusted data URL for templates;
// without it the data: scheme would be filtered out of src attributes.
func (p CompanyProfile) LogoURL() template.URL { return template.URL(p.LogoBase64) }

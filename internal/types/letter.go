package types

import (
	"github.com/go-playground/validator/v10"
)

// ApplicationLink ties a cover letter to a job application. It only enriches
// the recipient block.
type ApplicationLink struct {
	Company        string `json:"company,omitempty"`
	Position       string `json:"position,omitempty"`
	ContactName    string `json:"contact_name,omitempty"`
	ContactTitle   string `json:"contact_title,omitempty"`
	ContactEmail   string `json:"contact_email,omitempty" validate:"omitempty,email"`
	CompanyAddress string `json:"company_address,omitempty"`
}

// CoverLetterContent is the prose of a cover letter.
// Date is supplied by the caller; generation never reads the clock.
type CoverLetterContent struct {
	Date       string   `json:"date,omitempty"`
	Subject    string   `json:"subject,omitempty"`
	Greeting   string   `json:"greeting,omitempty"`
	Paragraphs []string `json:"paragraphs,omitempty"`
	Closing    string   `json:"closing,omitempty"`
}

// Validate validates the ApplicationLink using the validator.
func (a *ApplicationLink) Validate() error {
	validate := validator.New()
	return validate.Struct(a)
}

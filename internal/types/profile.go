package types

import (
	"github.com/go-playground/validator/v10"
)

// Profile is the user's structured résumé content.
// Dates are "YYYY-MM" strings; an empty end date on a current entry reads as "Present".
type Profile struct {
	Personal        PersonalInfo     `json:"personal"`
	Address         Address          `json:"address"`
	Summary         string           `json:"summary,omitempty"`
	WorkExperience  []WorkExperience `json:"work_experience,omitempty" validate:"dive"`
	Education       []Education      `json:"education,omitempty" validate:"dive"`
	SkillCategories []SkillCategory  `json:"skills,omitempty" validate:"dive"`
	Languages       []Language       `json:"languages,omitempty" validate:"dive"`
	Projects        []Project        `json:"projects,omitempty" validate:"dive"`
	Certificates    []Certificate    `json:"certificates,omitempty" validate:"dive"`
	CustomSections  []CustomSection  `json:"custom_sections,omitempty" validate:"dive"`
}

// PersonalInfo holds the identity and contact fields shown in the header.
type PersonalInfo struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Title     string `json:"title,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`
	Website   string `json:"website,omitempty" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// Address is the postal address of the profile owner.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// WorkExperience is one job.
type WorkExperience struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01"`
	EndDate      string   `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01"`
	IsCurrent    bool     `json:"is_current,omitempty"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// Education is one degree or course of study.
type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartDate    string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01"`
	EndDate      string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01"`
	IsCurrent    bool   `json:"is_current,omitempty"`
	Grade        string `json:"grade,omitempty"`
	Description  string `json:"description,omitempty"`
}

// SkillCategory groups skills under an optional heading ("Languages", "Cloud").
type SkillCategory struct {
	Name   string   `json:"name,omitempty"`
	Skills []string `json:"skills"`
}

// Language is a spoken language with a proficiency label.
type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

// Project is a portfolio project.
type Project struct {
	Name         string   `json:"name"`
	Role         string   `json:"role,omitempty"`
	URL          string   `json:"url,omitempty" validate:"omitempty,url"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	StartDate    string   `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01"`
	EndDate      string   `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01"`
	IsCurrent    bool     `json:"is_current,omitempty"`
}

// Certificate is a certification or license.
type Certificate struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer,omitempty"`
	IssueDate    string `json:"issue_date,omitempty" validate:"omitempty,datetime=2006-01"`
	ExpiryDate   string `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01"`
	CredentialID string `json:"credential_id,omitempty"`
}

// CustomSection is a user-titled free-form section.
type CustomSection struct {
	Title string   `json:"title"`
	Body  string   `json:"body,omitempty"`
	Items []string `json:"items,omitempty"`
}

// FullName joins first and last name with a single space.
func (p PersonalInfo) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Validate validates the Profile using the validator.
func (p *Profile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

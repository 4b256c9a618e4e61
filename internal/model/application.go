package model

import (
	"fmt"
	"time"
)

const (
	maxCompanyLen = 255
	maxRoleLen    = 255
	maxSalaryLen  = 100

	minInterestLevel = 1
	maxInterestLevel = 3
)

// Note is a dated entry embedded in an application. Notes have no
// identity of their own; the whole list is replaced on update.
type Note struct {
	OccurDate   Date   `json:"occurDate"`
	Description string `json:"description"`
}

func (n Note) Validate() error {
	if n.OccurDate.IsZero() {
		return fmt.Errorf("note occurDate is required")
	}
	if n.Description == "" {
		return fmt.Errorf("note description is required")
	}
	return nil
}

// Application is one tracked job application. CreatedAt and UpdatedAt
// are store bookkeeping and never serialize to the API.
type Application struct {
	ID            string `json:"id"`
	Company       string `json:"company"`
	Role          string `json:"role"`
	Description   string `json:"description"`
	Salary        string `json:"salary"`
	InterestLevel int    `json:"interestLevel"`
	Status        Status `json:"status"`
	SourcePage    string `json:"sourcePage"`
	ReviewPage    string `json:"reviewPage"`
	LoginHints    string `json:"loginHints"`
	AppliedDate   Date   `json:"appliedDate"`
	StatusDate    Date   `json:"statusDate"`
	Notes         []Note `json:"notes"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// NewApplication is the create payload. The id and timestamps are
// assigned by the repository, never by the caller.
type NewApplication struct {
	Company       string `json:"company"`
	Role          string `json:"role"`
	Description   string `json:"description"`
	Salary        string `json:"salary"`
	InterestLevel int    `json:"interestLevel"`
	Status        Status `json:"status"`
	SourcePage    string `json:"sourcePage"`
	ReviewPage    string `json:"reviewPage"`
	LoginHints    string `json:"loginHints"`
	AppliedDate   Date   `json:"appliedDate"`
	StatusDate    Date   `json:"statusDate"`
	Notes         []Note `json:"notes"`
}

// ApplyDefaults fills the creation-time defaults: status APPLIED, both
// dates today, notes an empty list.
func (n *NewApplication) ApplyDefaults(today Date) {
	if n.Status == "" {
		n.Status = StatusApplied
	}
	if n.AppliedDate.IsZero() {
		n.AppliedDate = today
	}
	if n.StatusDate.IsZero() {
		n.StatusDate = today
	}
	if n.Notes == nil {
		n.Notes = []Note{}
	}
}

func (n NewApplication) Validate() error {
	if err := validateCompany(n.Company); err != nil {
		return err
	}
	if err := validateRole(n.Role); err != nil {
		return err
	}
	if err := validateSalary(n.Salary); err != nil {
		return err
	}
	if err := validateInterestLevel(n.InterestLevel); err != nil {
		return err
	}
	if !n.Status.Valid() {
		return fmt.Errorf("unknown status %q", n.Status)
	}
	return validateNotes(n.Notes)
}

// Patch is a partial update. Nil means "leave unchanged"; absence, not
// a null marker, is the skip signal. AppliedDate is immutable and has
// no patch field.
type Patch struct {
	Company       *string `json:"company"`
	Role          *string `json:"role"`
	Description   *string `json:"description"`
	Salary        *string `json:"salary"`
	InterestLevel *int    `json:"interestLevel"`
	Status        *Status `json:"status"`
	StatusDate    *Date   `json:"statusDate"`
	SourcePage    *string `json:"sourcePage"`
	ReviewPage    *string `json:"reviewPage"`
	LoginHints    *string `json:"loginHints"`
	Notes         *[]Note `json:"notes"`
}

func (p Patch) IsEmpty() bool {
	return p.Company == nil &&
		p.Role == nil &&
		p.Description == nil &&
		p.Salary == nil &&
		p.InterestLevel == nil &&
		p.Status == nil &&
		p.StatusDate == nil &&
		p.SourcePage == nil &&
		p.ReviewPage == nil &&
		p.LoginHints == nil &&
		p.Notes == nil
}

func (p Patch) Validate() error {
	if p.Company != nil {
		if err := validateCompany(*p.Company); err != nil {
			return err
		}
	}
	if p.Role != nil {
		if err := validateRole(*p.Role); err != nil {
			return err
		}
	}
	if p.Salary != nil {
		if err := validateSalary(*p.Salary); err != nil {
			return err
		}
	}
	if p.InterestLevel != nil {
		if err := validateInterestLevel(*p.InterestLevel); err != nil {
			return err
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("unknown status %q", *p.Status)
	}
	if p.Notes != nil {
		return validateNotes(*p.Notes)
	}
	return nil
}

func validateCompany(s string) error {
	if s == "" {
		return fmt.Errorf("company is required")
	}
	if len(s) > maxCompanyLen {
		return fmt.Errorf("company exceeds %d characters", maxCompanyLen)
	}
	return nil
}

func validateRole(s string) error {
	if s == "" {
		return fmt.Errorf("role is required")
	}
	if len(s) > maxRoleLen {
		return fmt.Errorf("role exceeds %d characters", maxRoleLen)
	}
	return nil
}

func validateSalary(s string) error {
	if len(s) > maxSalaryLen {
		return fmt.Errorf("salary exceeds %d characters", maxSalaryLen)
	}
	return nil
}

func validateInterestLevel(v int) error {
	if v < minInterestLevel || v > maxInterestLevel {
		return fmt.Errorf("interestLevel must be between %d and %d", minInterestLevel, maxInterestLevel)
	}
	return nil
}

func validateNotes(notes []Note) error {
	for i, n := range notes {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("notes[%d]: %w", i, err)
		}
	}
	return nil
}

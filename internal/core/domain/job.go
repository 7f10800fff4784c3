package domain

import (
	"slices"
	"strings"
	"time"
)

// Department groups job postings on the careers page.
type Department string

const (
	DepartmentEngineering     Department = "engineering"
	DepartmentDesign          Department = "design"
	DepartmentMarketing       Department = "marketing"
	DepartmentSales           Department = "sales"
	DepartmentOperations      Department = "operations"
	DepartmentCustomerSuccess Department = "customer-success"
)

var departments = []Department{
	DepartmentEngineering,
	DepartmentDesign,
	DepartmentMarketing,
	DepartmentSales,
	DepartmentOperations,
	DepartmentCustomerSuccess,
}

func Departments() []Department { return slices.Clone(departments) }

func (d Department) Valid() bool { return slices.Contains(departments, d) }

// EmploymentType is the contract kind of a posting.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
)

var employmentTypes = []EmploymentType{
	EmploymentFullTime,
	EmploymentPartTime,
	EmploymentContract,
	EmploymentInternship,
}

func EmploymentTypes() []EmploymentType { return slices.Clone(employmentTypes) }

func (t EmploymentType) Valid() bool { return slices.Contains(employmentTypes, t) }

// Job is an open position. Unlike articles, new postings are published
// unless the caller says otherwise.
type Job struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Slug             string         `json:"slug"`
	Department       Department     `json:"department"`
	Location         string         `json:"location"`
	Type             EmploymentType `json:"type"`
	Description      string         `json:"description"`
	Requirements     []string       `json:"requirements"`
	Responsibilities []string       `json:"responsibilities"`
	Benefits         []string       `json:"benefits"`
	Salary           string         `json:"salary,omitempty"`
	Featured         bool           `json:"featured"`
	Published        bool           `json:"published"`
	Deadline         *time.Time     `json:"deadline,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// JobChanges mirrors ArticleChanges for postings. ClearDeadline removes an
// existing deadline and wins over Deadline.
type JobChanges struct {
	Title            *string
	Slug             *string
	Department       *Department
	Location         *string
	Type             *EmploymentType
	Description      *string
	Requirements     []string
	Responsibilities []string
	Benefits         []string
	Salary           *string
	Featured         *bool
	Published        *bool
	Deadline         *time.Time
	ClearDeadline    bool
}

// NewJob builds a validated posting from ch.
func NewJob(ch JobChanges, now time.Time) (*Job, error) {
	j := &Job{
		Requirements:     []string{},
		Responsibilities: []string{},
		Benefits:         []string{},
		Published:        true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	j.apply(ch)
	if j.Slug == "" {
		j.Slug = Slugify(j.Title)
	}
	if err := j.Validate(); err != nil {
		return nil, err
	}
	return j, nil
}

// Apply merges ch into j and refreshes UpdatedAt. j is left unchanged on
// validation failure.
func (j *Job) Apply(ch JobChanges, now time.Time) error {
	next := *j
	next.Requirements = slices.Clone(j.Requirements)
	next.Responsibilities = slices.Clone(j.Responsibilities)
	next.Benefits = slices.Clone(j.Benefits)
	next.apply(ch)
	if next.Slug == "" {
		next.Slug = Slugify(next.Title)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = now
	*j = next
	return nil
}

func (j *Job) Validate() error {
	var missing []string
	if j.Title == "" {
		missing = append(missing, "title")
	}
	if j.Department == "" {
		missing = append(missing, "department")
	}
	if j.Location == "" {
		missing = append(missing, "location")
	}
	if j.Type == "" {
		missing = append(missing, "type")
	}
	if j.Description == "" {
		missing = append(missing, "description")
	}
	if err := MissingFields(missing...); err != nil {
		return err
	}

	if j.Slug == "" {
		return InvalidField("slug", "slug must contain at least one letter or digit")
	}
	if !j.Department.Valid() {
		return InvalidField("department", "department must be one of: "+joinValues(departments))
	}
	if !j.Type.Valid() {
		return InvalidField("type", "type must be one of: "+joinValues(employmentTypes))
	}
	return nil
}

func (j *Job) apply(ch JobChanges) {
	setTrimmed(&j.Title, ch.Title)
	if ch.Slug != nil {
		j.Slug = Slugify(*ch.Slug)
	}
	if ch.Department != nil {
		j.Department = Department(strings.TrimSpace(string(*ch.Department)))
	}
	setTrimmed(&j.Location, ch.Location)
	if ch.Type != nil {
		j.Type = EmploymentType(strings.TrimSpace(string(*ch.Type)))
	}
	setTrimmed(&j.Description, ch.Description)
	if ch.Requirements != nil {
		j.Requirements = cleanList(ch.Requirements)
	}
	if ch.Responsibilities != nil {
		j.Responsibilities = cleanList(ch.Responsibilities)
	}
	if ch.Benefits != nil {
		j.Benefits = cleanList(ch.Benefits)
	}
	setTrimmed(&j.Salary, ch.Salary)
	if ch.Featured != nil {
		j.Featured = *ch.Featured
	}
	if ch.Published != nil {
		j.Published = *ch.Published
	}
	switch {
	case ch.ClearDeadline:
		j.Deadline = nil
	case ch.Deadline != nil:
		d := ch.Deadline.UTC()
		j.Deadline = &d
	}
}

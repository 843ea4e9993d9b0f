package school

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/schoolfees/backend/internal/domain/shared"
)

var academicYearNamePattern = regexp.MustCompile(`^\d{4}/\d{4}$`)

// AcademicYear represents a school year such as "2024/2025".
// At most one academic year is active at any time; activation is enforced
// transactionally by the application layer (deactivate all, then activate one).
type AcademicYear struct {
	shared.BaseAggregateRoot
	Name     string `gorm:"type:varchar(9);not null;uniqueIndex"`
	IsActive bool   `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (AcademicYear) TableName() string {
	return "academic_years"
}

// NewAcademicYear creates a new academic year
func NewAcademicYear(name string) (*AcademicYear, error) {
	if !academicYearNamePattern.MatchString(name) {
		return nil, shared.NewDomainError("INVALID_ACADEMIC_YEAR", "Academic year name must match YYYY/YYYY")
	}
	return &AcademicYear{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}

// Rename changes the display name
func (y *AcademicYear) Rename(name string) error {
	if !academicYearNamePattern.MatchString(name) {
		return shared.NewDomainError("INVALID_ACADEMIC_YEAR", "Academic year name must match YYYY/YYYY")
	}
	y.Name = name
	y.UpdatedAt = time.Now()
	y.IncrementVersion()
	return nil
}

// Activate marks this year as the active one
func (y *AcademicYear) Activate() {
	y.IsActive = true
	y.UpdatedAt = time.Now()
	y.IncrementVersion()
}

// Deactivate clears the active flag
func (y *AcademicYear) Deactivate() {
	y.IsActive = false
	y.UpdatedAt = time.Now()
	y.IncrementVersion()
}

// StartYear returns the first calendar year of the academic year
// ("2024/2025" -> 2024). Returns 0 when the name cannot be parsed.
func (y *AcademicYear) StartYear() int {
	parts := strings.SplitN(y.Name, "/", 2)
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	return n
}

// EndYear returns the second calendar year of the academic year
// ("2024/2025" -> 2025). Returns 0 when the name cannot be parsed.
func (y *AcademicYear) EndYear() int {
	parts := strings.SplitN(y.Name, "/", 2)
	if len(parts) < 2 {
		return 0
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return n
}

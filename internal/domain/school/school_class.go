package school

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/shared"
)

// SchoolClass represents a class/grade group (e.g. "7A")
type SchoolClass struct {
	shared.BaseAggregateRoot
	Name  string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Level int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SchoolClass) TableName() string {
	return "classes"
}

// NewSchoolClass creates a new class
func NewSchoolClass(name string, level int) (*SchoolClass, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Class name cannot be empty")
	}
	if level < 0 {
		return nil, shared.NewDomainError("INVALID_LEVEL", "Class level cannot be negative")
	}
	return &SchoolClass{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Level:             level,
	}, nil
}

// ClassHistory records which class a student belonged to in an academic year.
// One row per (student, academic year); promotions insert a new row for the
// next year rather than mutating the old one.
type ClassHistory struct {
	shared.BaseEntity
	StudentID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_class_history_student_year,priority:1"`
	ClassID        uuid.UUID `gorm:"type:uuid;not null;index"`
	AcademicYearID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_class_history_student_year,priority:2"`
}

// TableName returns the table name for GORM
func (ClassHistory) TableName() string {
	return "student_class_history"
}

// NewClassHistory assigns a student to a class for an academic year
func NewClassHistory(studentID, classID, academicYearID uuid.UUID) (*ClassHistory, error) {
	if studentID == uuid.Nil || classID == uuid.Nil || academicYearID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Student, class and academic year are required")
	}
	return &ClassHistory{
		BaseEntity:     shared.NewBaseEntity(),
		StudentID:      studentID,
		ClassID:        classID,
		AcademicYearID: academicYearID,
	}, nil
}

// Reassign moves the history row to a different class
func (h *ClassHistory) Reassign(classID uuid.UUID) error {
	if classID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Class is required")
	}
	h.ClassID = classID
	h.UpdatedAt = time.Now()
	return nil
}

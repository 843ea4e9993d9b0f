package school

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/shared"
)

// StudentStatus represents the enrollment status of a student
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "ACTIVE"
	StudentStatusInactive  StudentStatus = "INACTIVE"
	StudentStatusGraduated StudentStatus = "GRADUATED"
)

// IsValid checks if the status is a valid StudentStatus
func (s StudentStatus) IsValid() bool {
	switch s {
	case StudentStatusActive, StudentStatusInactive, StudentStatusGraduated:
		return true
	}
	return false
}

// String returns the string representation of StudentStatus
func (s StudentStatus) String() string {
	return string(s)
}

// Student represents an enrolled student. The ledger references students but
// never mutates them; class membership per academic year lives in ClassHistory.
type Student struct {
	shared.BaseAggregateRoot
	NIS      string        `gorm:"type:varchar(30);not null;uniqueIndex"` // student registration number
	FullName string        `gorm:"type:varchar(200);not null"`
	Status   StudentStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	UserID   *uuid.UUID    `gorm:"type:uuid;index"` // guardian/student login account, if linked
}

// TableName returns the table name for GORM
func (Student) TableName() string {
	return "students"
}

// NewStudent creates a new active student
func NewStudent(nis, fullName string) (*Student, error) {
	nis = strings.TrimSpace(nis)
	fullName = strings.TrimSpace(fullName)
	if nis == "" {
		return nil, shared.NewDomainError("INVALID_NIS", "Student NIS cannot be empty")
	}
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Student name cannot be empty")
	}
	return &Student{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		NIS:               nis,
		FullName:          fullName,
		Status:            StudentStatusActive,
	}, nil
}

// LinkUser associates a login account with the student
func (s *Student) LinkUser(userID uuid.UUID) {
	s.UserID = &userID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// SetStatus changes the enrollment status
func (s *Student) SetStatus(status StudentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Student status is not valid")
	}
	s.Status = status
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// IsActive returns true if the student is currently enrolled
func (s *Student) IsActive() bool {
	return s.Status == StudentStatusActive
}

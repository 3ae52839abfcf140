package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPassed, StatusFailed:
		return true
	}
	return false
}

type Training struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Date        Date      `gorm:"type:date;not null" json:"date"`
	Duration    *string   `gorm:"size:100" json:"duration"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t *Training) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Trainee belongs to exactly one Training. TrainingDate is copied from the
// training when the trainee is created and is not kept in sync afterwards.
type Trainee struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Surname        string    `gorm:"size:255;not null" json:"surname"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PhoneNumber    string    `gorm:"size:50;not null" json:"phoneNumber"`
	CompanyName    *string   `gorm:"size:255" json:"companyName"`
	TrainingID     string    `gorm:"size:36;not null;index" json:"trainingId"`
	TrainingDate   Date      `gorm:"type:date;not null" json:"trainingDate"`
	Status         Status    `gorm:"size:20;not null;default:pending" json:"status"`
	CertificateID  *string   `gorm:"size:255;index" json:"certificateId"`
	CertificateURL *string   `gorm:"type:text" json:"certificateUrl"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (t *Trainee) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	return nil
}

// Session backs the server-side session mode. Only the opaque ID travels in
// the cookie.
type Session struct {
	ID              string     `gorm:"primaryKey;size:64" json:"id"`
	IsAuthenticated bool       `gorm:"not null;default:false" json:"isAuthenticated"`
	ExpiresAt       time.Time  `gorm:"not null;index" json:"expiresAt"`
	RevokedAt       *time.Time `json:"revokedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReportDraft       = "draft"
	ReportSubmitted   = "submitted"
	ReportUnderReview = "under_review"
	ReportApproved    = "approved"
	ReportRejected    = "rejected"
)

var ReportStatuses = []string{ReportDraft, ReportSubmitted, ReportUnderReview, ReportApproved, ReportRejected}

var Recommendations = []string{"sign", "monitor", "pass"}

// ScoutingReport is a scout's evaluation of one player.
type ScoutingReport struct {
	ID             uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	PlayerID       uuid.UUID  `gorm:"type:char(36);not null;index" json:"player_id"`
	Player         User       `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"player"`
	ScoutID        uuid.UUID  `gorm:"type:char(36);not null;index" json:"scout_id"`
	Scout          Scout      `gorm:"foreignKey:ScoutID;constraint:OnDelete:CASCADE" json:"scout"`
	Title          string     `gorm:"size:200;not null" json:"title"`
	Summary        string     `gorm:"type:text" json:"summary"`
	Strengths      string     `gorm:"type:text" json:"strengths"`
	Weaknesses     string     `gorm:"type:text" json:"weaknesses"`
	Technical      int        `gorm:"not null" json:"technical"`
	Physical       int        `gorm:"not null" json:"physical"`
	Mental         int        `gorm:"not null" json:"mental"`
	Tactical       int        `gorm:"not null" json:"tactical"`
	Potential      int        `gorm:"not null" json:"potential"`
	OverallRating  float64    `gorm:"index" json:"overall_rating"`
	Recommendation string     `gorm:"size:20" json:"recommendation"`
	Status         string     `gorm:"size:20;not null;default:'draft';index" json:"status"`
	ReviewedBy     *uuid.UUID `gorm:"type:char(36)" json:"reviewed_by"`
	ReviewedAt     *time.Time `json:"reviewed_at"`
	ApprovedAt     *time.Time `json:"approved_at"`
	ReviewNotes    string     `gorm:"type:text" json:"review_notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (r *ScoutingReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (ScoutingReport) TableName() string {
	return "scouting_reports"
}

func ValidReportStatus(s string) bool {
	for _, v := range ReportStatuses {
		if v == s {
			return true
		}
	}
	return false
}

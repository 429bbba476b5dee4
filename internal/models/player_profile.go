package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PositionGoalkeeper = "goalkeeper"
	PositionDefender   = "defender"
	PositionMidfielder = "midfielder"
	PositionForward    = "forward"
)

// Positions lists the accepted player positions in display order.
var Positions = []string{PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward}

var PreferredFeet = []string{"left", "right", "both"}

type PlayerProfile struct {
	UserID        uuid.UUID  `gorm:"type:char(36);primaryKey" json:"user_id"`
	Position      string     `gorm:"size:20;not null;index" json:"position"`
	DateOfBirth   time.Time  `gorm:"not null;index" json:"date_of_birth"`
	HeightCm      int        `json:"height_cm"`
	WeightKg      int        `json:"weight_kg"`
	PreferredFoot string     `gorm:"size:10" json:"preferred_foot"`
	CurrentClubID *uuid.UUID `gorm:"type:char(36);index" json:"current_club_id"`
	CurrentClub   *Club      `gorm:"foreignKey:CurrentClubID;constraint:OnDelete:SET NULL" json:"current_club,omitempty"`
	MarketValue   float64    `json:"market_value"`
	Bio           string     `gorm:"type:text" json:"bio"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (PlayerProfile) TableName() string {
	return "player_profiles"
}

// Age returns the completed years between the date of birth and now.
func (p *PlayerProfile) Age(now time.Time) int {
	return AgeAt(p.DateOfBirth, now)
}

func AgeAt(dob, now time.Time) int {
	if dob.IsZero() {
		return 0
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

func ValidPosition(p string) bool {
	for _, v := range Positions {
		if v == p {
			return true
		}
	}
	return false
}

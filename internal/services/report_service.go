package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/models"
	"gorm.io/gorm"
)

// reportActions maps a workflow action to the status it sets. Any other
// action is ignored.
var reportActions = map[string]string{
	"approve": models.ReportApproved,
	"reject":  models.ReportRejected,
	"review":  models.ReportUnderReview,
	"draft":   models.ReportDraft,
}

// ReportActionStatus returns the status an action sets and whether the
// action is known.
func ReportActionStatus(action string) (string, bool) {
	status, ok := reportActions[action]
	return status, ok
}

type ReportService struct {
	db    *gorm.DB
	audit *AuditService
	now   func() time.Time
}

func NewReportService(db *gorm.DB, audit *AuditService) *ReportService {
	return &ReportService{db: db, audit: audit, now: time.Now}
}

func (s *ReportService) filtered(f *dto.ReportFilter) *gorm.DB {
	query := s.db.Model(&models.ScoutingReport{})
	if models.ValidReportStatus(f.Status) {
		query = query.Where("status = ?", f.Status)
	}
	if id, err := uuid.Parse(f.PlayerID); err == nil {
		query = query.Where("player_id = ?", id)
	}
	if id, err := uuid.Parse(f.ScoutID); err == nil {
		query = query.Where("scout_id = ?", id)
	}
	if f.MinRating > 0 {
		query = query.Where("overall_rating >= ?", f.MinRating)
	}
	return query
}

func (s *ReportService) List(f dto.ReportFilter, pageSize int) ([]models.ScoutingReport, Page, error) {
	var total int64
	if err := s.filtered(&f).Count(&total).Error; err != nil {
		return nil, Page{}, fmt.Errorf("failed to count reports: %w", err)
	}
	page := NewPage(f.Page, pageSize, total)

	var reports []models.ScoutingReport
	err := s.filtered(&f).
		Preload("Player").
		Preload("Scout.User").
		Order("created_at DESC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&reports).Error
	if err != nil {
		return nil, Page{}, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, page, nil
}

func (s *ReportService) ForPlayer(playerID uuid.UUID) ([]models.ScoutingReport, error) {
	var reports []models.ScoutingReport
	err := s.db.Preload("Scout.User").
		Where("player_id = ?", playerID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (s *ReportService) ForScout(scoutID uuid.UUID) ([]models.ScoutingReport, error) {
	var reports []models.ScoutingReport
	err := s.db.Preload("Player").
		Where("scout_id = ?", scoutID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (s *ReportService) Recent(limit int) ([]models.ScoutingReport, error) {
	var reports []models.ScoutingReport
	err := s.db.Preload("Player").Preload("Scout.User").
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

func (s *ReportService) Get(id uuid.UUID) (*models.ScoutingReport, error) {
	var report models.ScoutingReport
	err := s.db.Preload("Player").Preload("Player.Profile").Preload("Scout.User").
		First(&report, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// OverallRating is the mean of the five category ratings, one decimal.
func OverallRating(technical, physical, mental, tactical, potential int) float64 {
	sum := float64(technical + physical + mental + tactical + potential)
	return math.Round(sum/5*10) / 10
}

func (s *ReportService) build(form *dto.ReportForm, creating bool) (models.ScoutingReport, error) {
	var r models.ScoutingReport

	playerID, err := parseRequiredUUID("player_id", form.PlayerID)
	if err != nil {
		return r, err
	}
	scoutID, err := parseRequiredUUID("scout_id", form.ScoutID)
	if err != nil {
		return r, err
	}
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return r, invalid("title", "title is required")
	}

	ratings := []struct {
		field string
		value int
	}{
		{"technical", form.Technical},
		{"physical", form.Physical},
		{"mental", form.Mental},
		{"tactical", form.Tactical},
		{"potential", form.Potential},
	}
	for _, rt := range ratings {
		if rt.value < 1 || rt.value > 10 {
			return r, invalid(rt.field, "%s rating must be between 1 and 10", rt.field)
		}
	}

	if form.Recommendation != "" && !oneOf(form.Recommendation, models.Recommendations) {
		return r, invalid("recommendation", "recommendation must be one of %s", strings.Join(models.Recommendations, ", "))
	}
	if creating {
		if form.Status == "" {
			form.Status = models.ReportDraft
		}
		if form.Status != models.ReportDraft && form.Status != models.ReportSubmitted {
			return r, invalid("status", "new reports must be draft or submitted")
		}
	}

	r = models.ScoutingReport{
		PlayerID:       playerID,
		ScoutID:        scoutID,
		Title:          title,
		Summary:        strings.TrimSpace(form.Summary),
		Strengths:      strings.TrimSpace(form.Strengths),
		Weaknesses:     strings.TrimSpace(form.Weaknesses),
		Technical:      form.Technical,
		Physical:       form.Physical,
		Mental:         form.Mental,
		Tactical:       form.Tactical,
		Potential:      form.Potential,
		OverallRating:  OverallRating(form.Technical, form.Physical, form.Mental, form.Tactical, form.Potential),
		Recommendation: form.Recommendation,
		Status:         form.Status,
	}
	return r, nil
}

func ensureReportRefs(tx *gorm.DB, playerID, scoutID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ? AND role = ?", playerID, models.RolePlayer).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrPlayerNotFound
	}
	if err := tx.Model(&models.Scout{}).Where("id = ?", scoutID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrScoutNotFound
	}
	return nil
}

func (s *ReportService) Create(actor Actor, form *dto.ReportForm) (*models.ScoutingReport, error) {
	report, err := s.build(form, true)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureReportRefs(tx, report.PlayerID, report.ScoutID); err != nil {
			return err
		}
		if err := tx.Omit("Player", "Scout").Create(&report).Error; err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "create", "reports", report.ID.String(), map[string]interface{}{
			"title":  report.Title,
			"status": report.Status,
		})
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Update edits the report content. The status is left to ApplyAction.
func (s *ReportService) Update(actor Actor, id uuid.UUID, form *dto.ReportForm) (*models.ScoutingReport, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	report, err := s.build(form, false)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureReportRefs(tx, report.PlayerID, report.ScoutID); err != nil {
			return err
		}
		err := tx.Model(&models.ScoutingReport{}).Where("id = ?", id).Updates(map[string]interface{}{
			"player_id":      report.PlayerID,
			"scout_id":       report.ScoutID,
			"title":          report.Title,
			"summary":        report.Summary,
			"strengths":      report.Strengths,
			"weaknesses":     report.Weaknesses,
			"technical":      report.Technical,
			"physical":       report.Physical,
			"mental":         report.Mental,
			"tactical":       report.Tactical,
			"potential":      report.Potential,
			"overall_rating": report.OverallRating,
			"recommendation": report.Recommendation,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update report: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "update", "reports", id.String(), map[string]interface{}{
			"title": report.Title,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// ApplyAction sets the status mapped to action with a single UPDATE and
// audits it. Unknown actions change nothing and return false. The current
// status is not checked.
func (s *ReportService) ApplyAction(actor Actor, id uuid.UUID, action, notes string) (bool, error) {
	status, ok := reportActions[action]
	if !ok {
		return false, nil
	}

	now := s.now().UTC()
	updates := map[string]interface{}{
		"status":      status,
		"reviewed_by": actor.AdminID,
		"reviewed_at": now,
		"approved_at": nil,
	}
	if status == models.ReportApproved {
		updates["approved_at"] = now
	}
	if notes = strings.TrimSpace(notes); notes != "" {
		updates["review_notes"] = notes
	}

	result := s.db.Model(&models.ScoutingReport{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update report status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, ErrReportNotFound
	}

	s.audit.Record(actor, action, "reports", id.String(), map[string]interface{}{
		"status": status,
	})
	return true, nil
}

func (s *ReportService) Delete(actor Actor, id uuid.UUID) error {
	report, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ScoutingReport{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete report: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "delete", "reports", id.String(), map[string]interface{}{
			"title": report.Title,
		})
	})
}

// CountByStatus returns the number of reports in each status, including zeros.
func (s *ReportService) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := s.db.Model(&models.ScoutingReport{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(models.ReportStatuses))
	for _, st := range models.ReportStatuses {
		counts[st] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

package services

import (
	"github.com/scoutline/agency-admin/internal/models"
	"gorm.io/gorm"
)

const dashboardRecentLimit = 8

// DashboardStats is everything the home page shows.
type DashboardStats struct {
	Players        int64
	Scouts         int64
	Clubs          int64
	OpenTransfers  int64
	ReportCounts   map[string]int64
	RecentReports  []models.ScoutingReport
	RecentActivity []models.AdminLog
}

type DashboardService struct {
	db        *gorm.DB
	reports   *ReportService
	transfers *TransferService
	audit     *AuditService
}

func NewDashboardService(db *gorm.DB, reports *ReportService, transfers *TransferService, audit *AuditService) *DashboardService {
	return &DashboardService{db: db, reports: reports, transfers: transfers, audit: audit}
}

func (s *DashboardService) Stats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.User{}).Where("role = ?", models.RolePlayer).Count(&stats.Players).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Scout{}).Count(&stats.Scouts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Club{}).Count(&stats.Clubs).Error; err != nil {
		return nil, err
	}

	var err error
	if stats.OpenTransfers, err = s.transfers.OpenCount(); err != nil {
		return nil, err
	}
	if stats.ReportCounts, err = s.reports.CountByStatus(); err != nil {
		return nil, err
	}
	if stats.RecentReports, err = s.reports.Recent(dashboardRecentLimit); err != nil {
		return nil, err
	}
	if stats.RecentActivity, err = s.audit.Recent(dashboardRecentLimit); err != nil {
		return nil, err
	}
	return stats, nil
}

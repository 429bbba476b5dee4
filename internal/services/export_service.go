package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/xuri/excelize/v2"
)

const playerSheet = "Players"

var playerExportHeader = []interface{}{
	"Full name", "Username", "Email", "Country", "Position",
	"Date of birth", "Age", "Preferred foot", "Height (cm)",
	"Weight (kg)", "Current club", "Market value", "Status",
}

// ExportService renders player lists as XLSX workbooks.
type ExportService struct {
	players *PlayerService
	now     func() time.Time
}

func NewExportService(players *PlayerService) *ExportService {
	return &ExportService{players: players, now: time.Now}
}

// PlayersXLSX writes every player matching the filter to a single sheet.
func (s *ExportService) PlayersXLSX(f dto.PlayerFilter) (*bytes.Buffer, int, error) {
	players, err := s.players.All(f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load players: %w", err)
	}

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", playerSheet); err != nil {
		return nil, 0, err
	}
	if err := file.SetSheetRow(playerSheet, "A1", &playerExportHeader); err != nil {
		return nil, 0, err
	}
	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, 0, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(playerExportHeader))
	if err := file.SetCellStyle(playerSheet, "A1", lastCol+"1", bold); err != nil {
		return nil, 0, err
	}

	now := s.now()
	for i, p := range players {
		row := []interface{}{p.FullName, p.Username, p.Email, p.Country}
		if prof := p.Profile; prof != nil {
			club := ""
			if prof.CurrentClub != nil {
				club = prof.CurrentClub.Name
			}
			row = append(row,
				prof.Position,
				prof.DateOfBirth.Format("2006-01-02"),
				prof.Age(now),
				prof.PreferredFoot,
				prof.HeightCm,
				prof.WeightKg,
				club,
				prof.MarketValue,
			)
		} else {
			row = append(row, "", "", "", "", "", "", "", "")
		}
		row = append(row, p.Status)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, 0, err
		}
		if err := file.SetSheetRow(playerSheet, cell, &row); err != nil {
			return nil, 0, err
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, len(players), nil
}

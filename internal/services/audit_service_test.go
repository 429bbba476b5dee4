package services

import (
	"encoding/json"
	"testing"

	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecordAndList(t *testing.T) {
	env := newTestEnv(t)

	env.audit.Record(env.actor, "approve", "reports", "r-1", map[string]interface{}{"status": "approved"})
	env.audit.Record(env.actor, "delete", "players", "p-1", nil)
	env.audit.Record(Actor{Username: "system"}, "cleanup", "logs", "", nil)

	logs, page, err := env.audit.List(dto.LogFilter{Resource: "reports"}, 20)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.EqualValues(t, 1, page.Total)
	require.NotNil(t, logs[0].AdminID)
	assert.Equal(t, env.actor.AdminID, *logs[0].AdminID)
	assert.Equal(t, "127.0.0.1", logs[0].IPAddress)

	var details map[string]string
	require.NoError(t, json.Unmarshal(logs[0].Details, &details))
	assert.Equal(t, "approved", details["status"])

	logs, _, err = env.audit.List(dto.LogFilter{Admin: "SYS"}, 20)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].AdminID)

	actions, err := env.audit.Actions()
	require.NoError(t, err)
	assert.Equal(t, []string{"approve", "cleanup", "delete"}, actions)

	recent, err := env.audit.Recent(2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPlayer(t, "lmartin", "France", "forward", "2004-01-10")
	s := env.createScout(t, "scout1")
	club := env.createClub(t, "Ajax")
	r := env.createReport(t, p.ID, s.ID)
	_, err := env.reports.ApplyAction(env.actor, r.ID, "review", "")
	require.NoError(t, err)
	_, err = env.transfers.Create(env.actor, &dto.TransferForm{PlayerID: p.ID.String(), ClubID: club.ID.String(), Type: "free"})
	require.NoError(t, err)

	dash := NewDashboardService(env.db, env.reports, env.transfers, env.audit)
	stats, err := dash.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Players)
	assert.EqualValues(t, 1, stats.Scouts)
	assert.EqualValues(t, 1, stats.Clubs)
	assert.EqualValues(t, 1, stats.OpenTransfers)
	assert.EqualValues(t, 1, stats.ReportCounts["under_review"])
	assert.Len(t, stats.RecentReports, 1)
	assert.NotEmpty(t, stats.RecentActivity)
}

func TestPage(t *testing.T) {
	p := NewPage(0, 10, 0)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.HasNext())

	p = NewPage(9, 10, 25)
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 2, p.Prev())

	assert.Equal(t, MinPageSize, clampPageSize(1))
	assert.Equal(t, MaxPageSize, clampPageSize(1000))
	assert.Equal(t, 30, clampPageSize(30))
}

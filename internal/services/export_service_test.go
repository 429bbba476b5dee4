package services

import (
	"testing"
	"time"

	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestPlayersXLSX(t *testing.T) {
	env := newTestEnv(t)
	club := env.createClub(t, "Celtic")
	form := playerForm("lmartin", "France", models.PositionForward, "2004-01-10")
	form.CurrentClubID = club.ID.String()
	_, err := env.players.Create(env.actor, form)
	require.NoError(t, err)
	env.createPlayer(t, "jdoe", "Spain", models.PositionDefender, "2001-05-05")

	export := NewExportService(env.players)
	export.now = func() time.Time { return fixedNow }

	buf, n, err := export.PlayersXLSX(dto.PlayerFilter{Country: "France"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	file, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(playerSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Full name", rows[0][0])
	assert.Equal(t, "lmartin", rows[1][1])
	assert.Equal(t, "forward", rows[1][4])
	assert.Equal(t, "2004-01-10", rows[1][5])
	assert.Equal(t, "22", rows[1][6])
	assert.Equal(t, "Celtic", rows[1][10])
}

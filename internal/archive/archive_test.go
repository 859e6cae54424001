package archive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DoyleJ11/mst-sync/internal/catalog"
	"github.com/DoyleJ11/mst-sync/internal/scoreboard"
)

func TestNewSnapshot(t *testing.T) {
	board := scoreboard.NewEmpty()
	board.Tournament = "Evo"
	board.Round = "Grand Final"
	board.BestOf = 5
	board.P1 = scoreboard.Competitor{Name: "Armada", Character: catalog.Peach, Skin: catalog.SkinDaisy, Score: 3, WL: scoreboard.WLWin}
	board.P2 = scoreboard.Competitor{Name: "Mango", Character: catalog.Fox, Score: 1, WL: scoreboard.WLLoss}

	snap, err := NewSnapshot(board)
	require.NoError(t, err)
	assert.Equal(t, "Evo", snap.Tournament)
	assert.Equal(t, "Armada", snap.P1Name)
	assert.Equal(t, 3, snap.P1Score)
	assert.Equal(t, 5, snap.BestOf)
	assert.Equal(t, "scoreboard_snapshots", snap.TableName())

	back, err := snap.Board()
	require.NoError(t, err)
	assert.Equal(t, board, back)
}

// dryRun builds an archive whose statements are rendered but never sent.
func dryRun(t *testing.T) *Archive {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=mst dbname=mst sslmode=disable"), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return New(db)
}

func TestArchive_NotifyInsertsSnapshot(t *testing.T) {
	a := dryRun(t)
	board := scoreboard.NewEmpty()
	board.Tournament = "Genesis"
	board.P1.Name = "Cody"

	require.NoError(t, a.Notify(context.Background(), board))

	snap, err := NewSnapshot(board)
	require.NoError(t, err)
	sql := a.db.ToSQL(func(tx *gorm.DB) *gorm.DB { return tx.Create(&snap) })
	assert.Contains(t, sql, `INSERT INTO "scoreboard_snapshots"`)
	assert.Contains(t, sql, "'Genesis'")
	assert.Contains(t, sql, "'Cody'")
}

func TestArchive_RecentQuery(t *testing.T) {
	a := dryRun(t)

	got, err := a.Recent(context.Background(), "Genesis", 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	sql := a.db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return recent(tx, "Genesis", 5).Find(&[]Snapshot{})
	})
	assert.Contains(t, sql, `FROM "scoreboard_snapshots"`)
	assert.Contains(t, sql, "tournament = 'Genesis'")
	assert.Contains(t, sql, "ORDER BY created_at desc")
	assert.Contains(t, sql, "LIMIT 5")
}

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DoyleJ11/mst-sync/internal/scoreboard"
)

// Snapshot is one written board, kept for post-event review.
type Snapshot struct {
	ID         uint   `gorm:"primaryKey"`
	Tournament string `gorm:"index"`
	Round      string
	P1Name     string
	P2Name     string
	P1Score    int
	P2Score    int
	BestOf     int
	Body       string `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

func (Snapshot) TableName() string { return "scoreboard_snapshots" }

func NewSnapshot(board scoreboard.Scoreboard) (Snapshot, error) {
	body, err := json.Marshal(board)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Tournament: board.Tournament,
		Round:      board.Round,
		P1Name:     board.P1.Name,
		P2Name:     board.P2.Name,
		P1Score:    board.P1.Score,
		P2Score:    board.P2.Score,
		BestOf:     board.BestOf,
		Body:       string(body),
	}, nil
}

// Board decodes the stored body.
func (s Snapshot) Board() (scoreboard.Scoreboard, error) {
	var b scoreboard.Scoreboard
	err := json.Unmarshal([]byte(s.Body), &b)
	return b, err
}

type Archive struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Archive { return &Archive{db: db} }

// Open connects to Postgres and migrates the snapshot table.
func Open(dsn string) (*Archive, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return New(db), nil
}

func (a *Archive) Notify(ctx context.Context, board scoreboard.Scoreboard) error {
	snap, err := NewSnapshot(board)
	if err != nil {
		return err
	}
	return a.db.WithContext(ctx).Create(&snap).Error
}

// Recent returns the latest snapshots for a tournament, newest first.
func (a *Archive) Recent(ctx context.Context, tournament string, limit int) ([]Snapshot, error) {
	var out []Snapshot
	err := recent(a.db.WithContext(ctx), tournament, limit).Find(&out).Error
	return out, err
}

func recent(tx *gorm.DB, tournament string, limit int) *gorm.DB {
	return tx.Where("tournament = ?", tournament).Order("created_at desc").Limit(limit)
}

func (a *Archive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

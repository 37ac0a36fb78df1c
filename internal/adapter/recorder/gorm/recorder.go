// Package gormrec persists run fixtures to postgres. This is operator
// tooling outside the coordinator core: the core itself never keeps more
// than the latest snapshot.
package gormrec

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"spirebridge/internal/app/ports"
)

type StateRow struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	Sequence   uint64    `gorm:"index"`
	ScreenType string    `gorm:"size:64"`
	ReceivedAt time.Time `gorm:"index"`
	State      []byte    `gorm:"type:jsonb"`
}

func (StateRow) TableName() string { return "bridge_states" }

type DispatchRow struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Sequence     uint64 `gorm:"index"`
	ActionType   string `gorm:"size:64"`
	Line         string
	DispatchedAt time.Time `gorm:"index"`
}

func (DispatchRow) TableName() string { return "bridge_dispatches" }

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) (Recorder, error) {
	if err := db.AutoMigrate(&StateRow{}, &DispatchRow{}); err != nil {
		return Recorder{}, fmt.Errorf("migrate recorder tables: %w", err)
	}
	return Recorder{db: db}, nil
}

func (r Recorder) RecordState(ctx context.Context, rec ports.StateRecord) error {
	row := StateRow{
		Sequence:   rec.Sequence,
		ScreenType: rec.ScreenType,
		ReceivedAt: rec.ReceivedAt,
		State:      rec.State,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r Recorder) RecordDispatch(ctx context.Context, rec ports.DispatchRecord) error {
	row := DispatchRow{
		Sequence:     rec.Sequence,
		ActionType:   rec.ActionType,
		Line:         rec.Line,
		DispatchedAt: rec.DispatchedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r Recorder) ListStates(ctx context.Context, limit int) ([]ports.StateRecord, error) {
	rows := []StateRow{}
	query := r.db.WithContext(ctx).Order("received_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.StateRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.StateRecord{
			Sequence:   row.Sequence,
			ScreenType: row.ScreenType,
			ReceivedAt: row.ReceivedAt,
			State:      row.State,
		})
	}
	return out, nil
}

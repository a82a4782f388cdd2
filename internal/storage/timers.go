package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Tiliavir/activity-log/internal/model"
)

// ErrTimerRunning is returned by Start when the user already has a timer.
var ErrTimerRunning = errors.New("a timer is already running")

// TimerRepository stores at most one running timer per user.
type TimerRepository struct {
	db *gorm.DB
}

func NewTimerRepository(db *gorm.DB) *TimerRepository {
	return &TimerRepository{db: db}
}

// Active returns the running timer of userID, or ErrNotFound.
func (r *TimerRepository) Active(ctx context.Context, userID string) (*model.Timer, error) {
	var t model.Timer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&t).Error; err != nil {
		return nil, fmt.Errorf("active timer of %s: %w", userID, notFound(err))
	}
	return &t, nil
}

func (r *TimerRepository) Start(ctx context.Context, t *model.Timer) error {
	_, err := r.Active(ctx, t.UserID)
	switch {
	case err == nil:
		return ErrTimerRunning
	case !errors.Is(err, ErrNotFound):
		return err
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("start timer: %w", err)
	}
	return nil
}

// Stop removes and returns the running timer of userID.
func (r *TimerRepository) Stop(ctx context.Context, userID string) (*model.Timer, error) {
	t, err := r.Active(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Timer{}).Error; err != nil {
		return nil, fmt.Errorf("stop timer: %w", err)
	}
	return t, nil
}

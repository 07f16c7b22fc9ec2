package cleanup

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/vardhaman/furnishing-shop/internal/models"
)

// Sweeper periodically removes accounts that were never verified inside
// their verification window. The schedule is driven entirely by database
// state, so a process restart loses nothing.
type Sweeper struct {
	DB  *gorm.DB
	Log *slog.Logger

	cron *cron.Cron
}

func New(db *gorm.DB, log *slog.Logger) *Sweeper {
	return &Sweeper{DB: db, Log: log, cron: cron.New()}
}

func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("@every 10m", func() {
		if _, err := s.SweepOnce(); err != nil {
			s.Log.Error("unverified user sweep failed", "err", err)
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// SweepOnce deletes unverified users whose verification window has passed
// and returns how many rows went away.
func (s *Sweeper) SweepOnce() (int64, error) {
	res := s.DB.
		Where("is_verified = ? AND verification_expires_at < ?", false, time.Now()).
		Delete(&models.User{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.Log.Info("removed unverified users", "count", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

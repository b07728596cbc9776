// Package reminder posts the daily attendance nudge to the alert channel,
// skipping weekends and configured holidays.
package reminder

import (
	"context"
	"log"
	"time"
)

const reminderText = "⏰ 오늘 출결 체크 잊지 마세요! 모두 좋은 하루 보내세요!"

type Notifier interface {
	SendChannelMessage(ctx context.Context, channelID, content string) error
}

type Reminder struct {
	notifier  Notifier
	channelID string
	at        string // "HH:MM", server-local
	holidays  map[string]struct{}

	nowFunc func() time.Time
}

func New(notifier Notifier, channelID, at string, holidays []string) *Reminder {
	hs := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		hs[h] = struct{}{}
	}
	return &Reminder{
		notifier:  notifier,
		channelID: channelID,
		at:        at,
		holidays:  hs,
		nowFunc:   time.Now,
	}
}

// Run blocks until ctx is cancelled, firing once per day at the configured
// time.
func (r *Reminder) Run(ctx context.Context) {
	if r.channelID == "" {
		log.Println("[INFO] reminder disabled: no alert channel configured")
		return
	}

	for {
		now := r.nowFunc()
		next := r.nextRun(now)
		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		now = r.nowFunc()
		if r.skip(now) {
			log.Println("[INFO] reminder skipped: holiday or weekend")
			continue
		}
		if err := r.notifier.SendChannelMessage(ctx, r.channelID, reminderText); err != nil {
			log.Printf("[WARN] reminder send failed: %v", err)
			continue
		}
		log.Println("[INFO] reminder sent")
	}
}

// nextRun returns the next occurrence of the configured wall-clock time
// strictly after now.
func (r *Reminder) nextRun(now time.Time) time.Time {
	hh, mm := parseClock(r.at)
	next := time.Date(now.Year(), now.Month(), now.Day(), hh, mm, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (r *Reminder) skip(t time.Time) bool {
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return true
	}
	_, holiday := r.holidays[t.Format("2006-01-02")]
	return holiday
}

func parseClock(v string) (int, int) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 7, 0
	}
	return t.Hour(), t.Minute()
}

package cron

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultInterval applies when no schedule is configured.
const DefaultInterval = 5 * time.Minute

// Schedule yields the next run time after a given instant.
type Schedule interface {
	Next(time.Time) time.Time
}

type every time.Duration

func (e every) Next(t time.Time) time.Time { return t.Add(time.Duration(e)) }

// ParseSchedule accepts a positive number of seconds or a standard
// five-field cron expression. An empty setting means DefaultInterval.
func ParseSchedule(setting string) (Schedule, error) {
	setting = strings.TrimSpace(setting)
	if setting == "" {
		return every(DefaultInterval), nil
	}
	if v, err := strconv.Atoi(setting); err == nil {
		if v <= 0 {
			return nil, fmt.Errorf("cron: interval must be positive, got %d", v)
		}
		return every(time.Duration(v) * time.Second), nil
	}
	sched, err := cron.ParseStandard(setting)
	if err != nil {
		return nil, fmt.Errorf("cron: parse schedule %q: %w", setting, err)
	}
	return sched, nil
}

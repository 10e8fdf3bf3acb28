package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts the standard five-field format the worker schedule
// uses ("0 12 * * *"). No seconds field, no descriptors.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks that a schedule parses as a five-field
// cron expression.
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("cron schedule is empty")
	}
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("cron schedule %q: %w", schedule, err)
	}
	return nil
}

// ValidateTimezone checks that a timezone is a loadable IANA name such
// as "UTC" or "America/New_York". Loading depends on tzdata being
// present in the image, so a valid name can still fail here.
func ValidateTimezone(timezone string) error {
	if timezone == "" {
		return fmt.Errorf("timezone is empty")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", timezone, err)
	}
	return nil
}

// ValidateDuration checks that d lies within [min, max].
func ValidateDuration(d, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("bounds reversed: min %v > max %v", min, max)
	}
	if d < min || d > max {
		return fmt.Errorf("%v outside allowed range [%v, %v]", d, min, max)
	}
	return nil
}

// ValidateIntRange checks that value lies within [min, max].
func ValidateIntRange(value, min, max int) error {
	if min > max {
		return fmt.Errorf("bounds reversed: min %d > max %d", min, max)
	}
	if value < min || value > max {
		return fmt.Errorf("%d outside allowed range [%d, %d]", value, min, max)
	}
	return nil
}

// ValidatePositiveDuration checks that d is strictly greater than zero.
// Zero would mean an instant timeout, not a disabled one.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

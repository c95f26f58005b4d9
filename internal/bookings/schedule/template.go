package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"agendo/pkg/model"
)

// Template is the fixed daily working window partitioned into equal slots.
// The default configuration is 09:00-17:00 with hourly granularity.
type Template struct {
	dayStart     time.Duration // offset from midnight
	dayEnd       time.Duration
	slotDuration time.Duration
}

func NewTemplate(workdayStart, workdayEnd string, slotDurationMin int) (*Template, error) {
	start, err := parseTimeOfDay(workdayStart)
	if err != nil {
		return nil, fmt.Errorf("invalid workday start: %w", err)
	}

	end, err := parseTimeOfDay(workdayEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid workday end: %w", err)
	}

	if end <= start {
		return nil, fmt.Errorf("workday end %s must be after start %s", workdayEnd, workdayStart)
	}
	if slotDurationMin <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", slotDurationMin)
	}

	return &Template{
		dayStart:     start,
		dayEnd:       end,
		slotDuration: time.Duration(slotDurationMin) * time.Minute,
	}, nil
}

// Slots partitions the working window of the given date into the template's
// half-open slots, in chronological order. Slots that would extend past the
// end of the window are not produced.
func (t *Template) Slots(date time.Time) []model.AvailabilitySlot {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, date.Location())

	windowEnd := midnight.Add(t.dayEnd)

	var slots []model.AvailabilitySlot
	for cursor := midnight.Add(t.dayStart); !cursor.Add(t.slotDuration).After(windowEnd); cursor = cursor.Add(t.slotDuration) {
		slots = append(slots, model.AvailabilitySlot{
			StartTime: cursor,
			EndTime:   cursor.Add(t.slotDuration),
		})
	}

	return slots
}

// Derive computes the free slots of the date: a template slot is available iff
// no booking overlaps it. Pure with respect to its inputs, which makes the
// result safe to cache. Past slots are not filtered out.
func (t *Template) Derive(date time.Time, bookings []*model.Booking) []model.AvailabilitySlot {
	available := []model.AvailabilitySlot{}
	for _, slot := range t.Slots(date) {
		if !anyOverlaps(bookings, slot.StartTime, slot.EndTime) {
			available = append(available, slot)
		}
	}
	return available
}

func anyOverlaps(bookings []*model.Booking, start, end time.Time) bool {
	for _, b := range bookings {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func parseTimeOfDay(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, nil
}

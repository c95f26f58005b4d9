package schedule

import (
	"testing"
	"time"

	"agendo/pkg/model"
)

func mustTemplate(t *testing.T) *Template {
	t.Helper()
	template, err := NewTemplate("09:00", "17:00", 60)
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}
	return template
}

func booking(professionalID string, start, end time.Time) *model.Booking {
	return &model.Booking{
		ClientID:       "client-1",
		ProfessionalID: professionalID,
		StartTime:      start,
		EndTime:        end,
		ServiceType:    "consultation",
	}
}

func TestNewTemplate(t *testing.T) {
	cases := []struct {
		name        string
		start, end  string
		slotMinutes int
		wantErr     bool
	}{
		{"default workday", "09:00", "17:00", 60, false},
		{"half hour slots", "08:30", "12:30", 30, false},
		{"end before start", "17:00", "09:00", 60, true},
		{"end equals start", "09:00", "09:00", 60, true},
		{"zero slot duration", "09:00", "17:00", 0, true},
		{"negative slot duration", "09:00", "17:00", -15, true},
		{"malformed start", "9am", "17:00", 60, true},
		{"hour out of range", "25:00", "17:00", 60, true},
		{"minute out of range", "09:61", "17:00", 60, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTemplate(tc.start, tc.end, tc.slotMinutes)
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSlots(t *testing.T) {
	template := mustTemplate(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	slots := template.Slots(date)
	if len(slots) != 8 {
		t.Fatalf("expected 8 hourly slots, got %d", len(slots))
	}

	for i, slot := range slots {
		wantStart := time.Date(2026, 3, 10, 9+i, 0, 0, 0, time.UTC)
		if !slot.StartTime.Equal(wantStart) {
			t.Errorf("slot %d: expected start %v, got %v", i, wantStart, slot.StartTime)
		}
		if !slot.EndTime.Equal(wantStart.Add(time.Hour)) {
			t.Errorf("slot %d: expected end %v, got %v", i, wantStart.Add(time.Hour), slot.EndTime)
		}
	}
}

func TestSlotsDropPartialTrailingSlot(t *testing.T) {
	template, err := NewTemplate("09:00", "10:30", 60)
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}

	slots := template.Slots(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, partial trailing slot must be dropped, got %d", len(slots))
	}
}

func TestSlotsIgnoreTimeOfDayInput(t *testing.T) {
	template := mustTemplate(t)

	morning := template.Slots(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	evening := template.Slots(time.Date(2026, 3, 10, 22, 45, 11, 0, time.UTC))

	if len(morning) != len(evening) {
		t.Fatalf("slot count differs by time of day: %d vs %d", len(morning), len(evening))
	}
	for i := range morning {
		if !morning[i].StartTime.Equal(evening[i].StartTime) {
			t.Errorf("slot %d differs by time of day", i)
		}
	}
}

func TestDerive(t *testing.T) {
	template := mustTemplate(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
	}

	cases := []struct {
		name      string
		bookings  []*model.Booking
		wantFree  int
		wantGone  []int // hours that must not appear as free slot starts
		wantFirst int   // hour of first free slot
	}{
		{
			name:      "no bookings",
			bookings:  nil,
			wantFree:  8,
			wantFirst: 9,
		},
		{
			name:      "one aligned booking",
			bookings:  []*model.Booking{booking("prof-1", at(10, 0), at(11, 0))},
			wantFree:  7,
			wantGone:  []int{10},
			wantFirst: 9,
		},
		{
			name:      "unaligned booking blocks both touched slots",
			bookings:  []*model.Booking{booking("prof-1", at(10, 30), at(11, 30))},
			wantFree:  6,
			wantGone:  []int{10, 11},
			wantFirst: 9,
		},
		{
			name: "long booking blocks every covered slot",
			bookings: []*model.Booking{
				booking("prof-1", at(9, 0), at(13, 0)),
			},
			wantFree:  4,
			wantGone:  []int{9, 10, 11, 12},
			wantFirst: 13,
		},
		{
			name: "booking outside the window changes nothing",
			bookings: []*model.Booking{
				booking("prof-1", at(7, 0), at(8, 0)),
				booking("prof-1", at(17, 0), at(18, 0)),
			},
			wantFree:  8,
			wantFirst: 9,
		},
		{
			name: "fully booked day",
			bookings: []*model.Booking{
				booking("prof-1", at(9, 0), at(17, 0)),
			},
			wantFree: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			free := template.Derive(date, tc.bookings)

			if len(free) != tc.wantFree {
				t.Fatalf("expected %d free slots, got %d", tc.wantFree, len(free))
			}
			if tc.wantFree > 0 && free[0].StartTime.Hour() != tc.wantFirst {
				t.Errorf("expected first free slot at %02d:00, got %v", tc.wantFirst, free[0].StartTime)
			}
			for _, gone := range tc.wantGone {
				for _, slot := range free {
					if slot.StartTime.Hour() == gone {
						t.Errorf("slot starting %02d:00 should be blocked", gone)
					}
				}
			}
			// Chronological order.
			for i := 1; i < len(free); i++ {
				if !free[i-1].StartTime.Before(free[i].StartTime) {
					t.Errorf("slots out of order at index %d", i)
				}
			}
		})
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	template := mustTemplate(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	bookings := []*model.Booking{
		booking("prof-1", time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC), time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)),
	}

	first := template.Derive(date, bookings)
	for i := 0; i < 10; i++ {
		again := template.Derive(date, bookings)
		if len(again) != len(first) {
			t.Fatalf("derivation not stable: %d vs %d slots", len(first), len(again))
		}
		for j := range first {
			if !first[j].StartTime.Equal(again[j].StartTime) {
				t.Fatalf("derivation not stable at slot %d", j)
			}
		}
	}
}

func TestDeriveNeverReturnsNil(t *testing.T) {
	template := mustTemplate(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	free := template.Derive(date, []*model.Booking{
		booking("prof-1", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)),
	})
	if free == nil {
		t.Error("fully booked day must yield empty slice, not nil")
	}
}

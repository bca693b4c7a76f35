package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"creatorplatform-server/models"
)

// Policy knobs. The pre-arrival lead and the per-creator schedule cap carry
// no hard business rationale, so both are overridable from the environment
// instead of being baked in.
var (
	searchLeadDays     = 30
	maxTravelSchedules = 10
)

// LoadPolicyFromEnv applies SEARCH_LEAD_DAYS and MAX_TRAVEL_SCHEDULES
// overrides. Called once at startup.
func LoadPolicyFromEnv() {
	if v := os.Getenv("SEARCH_LEAD_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			log.Println("ignoring invalid SEARCH_LEAD_DAYS:", v)
		} else {
			searchLeadDays = days
		}
	}
	if v := os.Getenv("MAX_TRAVEL_SCHEDULES"); v != "" {
		max, err := strconv.Atoi(v)
		if err != nil || max < 1 {
			log.Println("ignoring invalid MAX_TRAVEL_SCHEDULES:", v)
		} else {
			maxTravelSchedules = max
		}
	}
}

func SearchLeadDays() int { return searchLeadDays }

func MaxTravelSchedules() int { return maxTravelSchedules }

// WithinSearchWindow reports whether a schedule is a valid match target at
// the reference instant: from searchLeadDays before the trip starts through
// the trip's end, inclusive. Businesses searching today should see creators
// arriving within the next month, not only creators already present.
func WithinSearchWindow(s models.TravelSchedule, now time.Time) bool {
	windowStart := s.StartDate.AddDate(0, 0, -searchLeadDays)
	return !now.Before(windowStart) && !now.After(s.EndDate)
}

// CurrentOrUpcoming reports whether a schedule has not yet ended. This is
// the display predicate for listing a creator's own trips; it is wider than
// WithinSearchWindow and the two must not be conflated.
func CurrentOrUpcoming(s models.TravelSchedule, now time.Time) bool {
	return !now.After(s.EndDate)
}

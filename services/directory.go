package services

import (
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"creatorplatform-server/models"
	"creatorplatform-server/storage"
	"creatorplatform-server/utils"
)

// How many merely-upcoming trips a directory card shows alongside the ones
// that caused the match.
const upcomingDisplayCap = 3

// CreatorEntry is a creator_profile row joined in memory with its base
// profile and the creator's travel schedules.
type CreatorEntry struct {
	CreatorProfile models.CreatorProfile   `json:"creatorProfile"`
	Profile        models.Profile          `json:"profile"`
	Schedules      []models.TravelSchedule `json:"-"`
}

// CreatorResult is a matched entry plus the schedules relevant to display:
// MatchingSchedules are the reason the creator matched the active filters,
// UpcomingSchedules are the next few trips not already shown as matches.
type CreatorResult struct {
	CreatorEntry
	MatchingSchedules []models.TravelSchedule `json:"matchingSchedules"`
	UpcomingSchedules []models.TravelSchedule `json:"upcomingSchedules"`
}

// BusinessEntry is a business_profile row joined with its base profile.
type BusinessEntry struct {
	BusinessProfile models.BusinessProfile `json:"businessProfile"`
	Profile         models.Profile         `json:"profile"`
}

// FetchCreatorDirectory loads every creator profile (newest first), the base
// profiles they belong to, and all of their travel schedules, joining the
// three sets in memory. Extension rows whose base profile is missing are
// dropped so a partial write never reaches the client.
func FetchCreatorDirectory() ([]CreatorEntry, error) {
	var creatorProfiles []models.CreatorProfile
	if err := storage.DB.Order("created_at DESC").Find(&creatorProfiles).Error; err != nil {
		return nil, utils.ClassifyDBError(err)
	}
	if len(creatorProfiles) == 0 {
		return []CreatorEntry{}, nil
	}

	creatorIDs := make([]uint, 0, len(creatorProfiles))
	for _, cp := range creatorProfiles {
		creatorIDs = append(creatorIDs, cp.CreatorID)
	}

	var profiles []models.Profile
	if err := storage.DB.Where("id IN ?", creatorIDs).Find(&profiles).Error; err != nil {
		return nil, utils.ClassifyDBError(err)
	}

	var schedules []models.TravelSchedule
	if err := storage.DB.Where("creator_id IN ?", creatorIDs).
		Order("start_date ASC").Find(&schedules).Error; err != nil {
		return nil, utils.ClassifyDBError(err)
	}

	return JoinCreatorEntries(creatorProfiles, profiles, schedules), nil
}

// JoinCreatorEntries performs the in-memory join. Order of creatorProfiles
// is preserved; orphaned extension rows are silently dropped.
func JoinCreatorEntries(
	creatorProfiles []models.CreatorProfile,
	profiles []models.Profile,
	schedules []models.TravelSchedule,
) []CreatorEntry {
	profilesByID := make(map[uint]models.Profile, len(profiles))
	for _, p := range profiles {
		profilesByID[p.ID] = p
	}

	schedulesByCreator := make(map[uint][]models.TravelSchedule)
	for _, s := range schedules {
		schedulesByCreator[s.CreatorID] = append(schedulesByCreator[s.CreatorID], s)
	}

	entries := make([]CreatorEntry, 0, len(creatorProfiles))
	for _, cp := range creatorProfiles {
		base, ok := profilesByID[cp.CreatorID]
		if !ok {
			continue
		}
		entries = append(entries, CreatorEntry{
			CreatorProfile: cp,
			Profile:        base,
			Schedules:      schedulesByCreator[cp.CreatorID],
		})
	}
	return entries
}

// FetchBusinessDirectory loads business profiles most recently updated first
// and joins their base profiles, dropping orphans.
func FetchBusinessDirectory() ([]BusinessEntry, error) {
	var businessProfiles []models.BusinessProfile
	if err := storage.DB.Order("updated_at DESC").Find(&businessProfiles).Error; err != nil {
		return nil, utils.ClassifyDBError(err)
	}
	if len(businessProfiles) == 0 {
		return []BusinessEntry{}, nil
	}

	businessIDs := make([]uint, 0, len(businessProfiles))
	for _, bp := range businessProfiles {
		businessIDs = append(businessIDs, bp.BusinessID)
	}

	var profiles []models.Profile
	if err := storage.DB.Where("id IN ?", businessIDs).Find(&profiles).Error; err != nil {
		return nil, utils.ClassifyDBError(err)
	}

	profilesByID := make(map[uint]models.Profile, len(profiles))
	for _, p := range profiles {
		profilesByID[p.ID] = p
	}

	entries := make([]BusinessEntry, 0, len(businessProfiles))
	for _, bp := range businessProfiles {
		base, ok := profilesByID[bp.BusinessID]
		if !ok {
			continue
		}
		entries = append(entries, BusinessEntry{BusinessProfile: bp, Profile: base})
	}
	return entries, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// scheduleMatchesQuery checks a trip's city or country against the
// already-lowercased query.
func scheduleMatchesQuery(s models.TravelSchedule, query string) bool {
	return containsFold(s.Country, query) || containsFold(s.City, query)
}

// creatorMatches decides whether an entry belongs in the filtered directory.
// Both clauses must hold; each is vacuously true when its filter is empty.
// Own fields are consulted first, then trips inside the search window.
func creatorMatches(e CreatorEntry, query, country string, now time.Time) bool {
	matchesQuery := true
	if query != "" {
		q := strings.ToLower(query)
		matchesQuery = containsFold(e.CreatorProfile.Description, q) ||
			containsFold(e.Profile.Username, q) ||
			containsFold(e.CreatorProfile.City, q) ||
			containsFold(e.CreatorProfile.Country, q)

		if !matchesQuery {
			for _, lang := range e.Profile.LanguageList() {
				if containsFold(lang, q) {
					matchesQuery = true
					break
				}
			}
		}

		if !matchesQuery {
			for _, s := range e.Schedules {
				if WithinSearchWindow(s, now) && scheduleMatchesQuery(s, q) {
					matchesQuery = true
					break
				}
			}
		}
	}

	matchesCountry := true
	if country != "" {
		matchesCountry = e.CreatorProfile.Country == country

		if !matchesCountry {
			for _, s := range e.Schedules {
				if WithinSearchWindow(s, now) && s.Country == country {
					matchesCountry = true
					break
				}
			}
		}
	}

	return matchesQuery && matchesCountry
}

// FilterCreators recomputes the displayable creator list from the full
// fetched set. Each creator appears at most once even when several of their
// trips satisfy the filters.
func FilterCreators(entries []CreatorEntry, query, country string, now time.Time) []CreatorResult {
	matched := make(map[uint]bool, len(entries))
	for _, e := range entries {
		if creatorMatches(e, query, country, now) {
			matched[e.CreatorProfile.CreatorID] = true
		}
	}

	results := make([]CreatorResult, 0, len(matched))
	seen := make(map[uint]bool, len(matched))
	for _, e := range entries {
		id := e.CreatorProfile.CreatorID
		if !matched[id] || seen[id] {
			continue
		}
		seen[id] = true

		matching := matchingSchedules(e, query, country, now)
		results = append(results, CreatorResult{
			CreatorEntry:      e,
			MatchingSchedules: matching,
			UpcomingSchedules: upcomingSchedules(e, matching, now),
		})
	}
	return results
}

// matchingSchedules returns the trips that are the reason a creator shows up
// under the active filters, for highlighting. Empty when no filters are set.
func matchingSchedules(e CreatorEntry, query, country string, now time.Time) []models.TravelSchedule {
	if query == "" && country == "" {
		return []models.TravelSchedule{}
	}

	q := strings.ToLower(query)
	matching := []models.TravelSchedule{}
	for _, s := range e.Schedules {
		if !WithinSearchWindow(s, now) {
			continue
		}
		byQuery := query != "" && scheduleMatchesQuery(s, q)
		byCountry := country != "" && s.Country == country
		if byQuery || byCountry {
			matching = append(matching, s)
		}
	}
	return matching
}

// upcomingSchedules returns the next few not-yet-ended trips, excluding the
// ones already shown as matches so nothing renders twice.
func upcomingSchedules(e CreatorEntry, matching []models.TravelSchedule, now time.Time) []models.TravelSchedule {
	matchedIDs := make(map[uint]bool, len(matching))
	for _, s := range matching {
		matchedIDs[s.ID] = true
	}

	upcoming := []models.TravelSchedule{}
	for _, s := range e.Schedules {
		if len(upcoming) == upcomingDisplayCap {
			break
		}
		if CurrentOrUpcoming(s, now) && !matchedIDs[s.ID] {
			upcoming = append(upcoming, s)
		}
	}
	return upcoming
}

// FilterBusinesses applies the business directory filters: free text over
// title, description and business name, and exact country equality.
func FilterBusinesses(entries []BusinessEntry, query, country string) []BusinessEntry {
	results := make([]BusinessEntry, 0, len(entries))
	seen := make(map[uint]bool, len(entries))
	for _, e := range entries {
		if seen[e.BusinessProfile.BusinessID] {
			continue
		}

		if query != "" {
			q := strings.ToLower(query)
			if !containsFold(e.BusinessProfile.Title, q) &&
				!containsFold(e.BusinessProfile.Description, q) &&
				!containsFold(e.BusinessProfile.BusinessName, q) {
				continue
			}
		}
		if country != "" && e.BusinessProfile.BusinessCountry != country {
			continue
		}

		seen[e.BusinessProfile.BusinessID] = true
		results = append(results, e)
	}
	return results
}

// AvailableCreatorCountries is the distinct, sorted union of the creators'
// own countries and every travel-schedule country. Recomputed from the full
// entry set on each request so the dropdown tracks the data.
func AvailableCreatorCountries(entries []CreatorEntry) []string {
	set := make(map[string]bool)
	for _, e := range entries {
		if e.CreatorProfile.Country != "" {
			set[e.CreatorProfile.Country] = true
		}
		for _, s := range e.Schedules {
			if s.Country != "" {
				set[s.Country] = true
			}
		}
	}
	return sortedKeys(set)
}

// AvailableBusinessCountries is the distinct, sorted set of business
// countries.
func AvailableBusinessCountries(entries []BusinessEntry) []string {
	set := make(map[string]bool)
	for _, e := range entries {
		if e.BusinessProfile.BusinessCountry != "" {
			set[e.BusinessProfile.BusinessCountry] = true
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

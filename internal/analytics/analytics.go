package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"site-builder/internal/storage"
)

// DailyStats aggregates the activity log for one calendar day.
type DailyStats struct {
	Date         string               `json:"date"`
	TotalEvents  int                  `json:"total_events"`
	UniqueUsers  int                  `json:"unique_users"`
	EventsByKind map[string]int       `json:"events_by_kind"`
	UserStats    map[string]UserStats `json:"user_stats"`
}

// UserStats is the per-user slice of DailyStats.
type UserStats struct {
	UserID       string         `json:"user_id"`
	Events       int            `json:"events"`
	EventsByKind map[string]int `json:"events_by_kind"`
}

// AnalyzeDailyLogs counts the events that fall on targetDate's day in
// targetDate's location.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	stats := &DailyStats{
		Date:         startOfDay.Format("2006-01-02"),
		EventsByKind: make(map[string]int),
		UserStats:    make(map[string]UserStats),
	}

	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		if event.UserID == "" {
			continue
		}
		stats.TotalEvents++
		stats.EventsByKind[event.Kind]++

		userStat, ok := stats.UserStats[event.UserID]
		if !ok {
			userStat = UserStats{UserID: event.UserID, EventsByKind: make(map[string]int)}
		}
		userStat.Events++
		userStat.EventsByKind[event.Kind]++
		stats.UserStats[event.UserID] = userStat
	}

	stats.UniqueUsers = len(stats.UserStats)
	return stats
}

// GenerateReportSummary renders the stats as plain text for the daily report.
func (ds *DailyStats) GenerateReportSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Website builder activity for %s:\n\n", ds.Date)
	fmt.Fprintf(&b, "- Total events: %d\n", ds.TotalEvents)
	fmt.Fprintf(&b, "- Unique users: %d\n\n", ds.UniqueUsers)

	if len(ds.EventsByKind) > 0 {
		b.WriteString("Events by kind:\n")
		for _, kind := range sortedKeys(ds.EventsByKind) {
			fmt.Fprintf(&b, "- %s: %d\n", kind, ds.EventsByKind[kind])
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Users (%d):\n", len(ds.UserStats))
	ids := make([]string, 0, len(ds.UserStats))
	for id := range ds.UserStats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		us := ds.UserStats[id]
		fmt.Fprintf(&b, "- User %s: %d events", id, us.Events)
		if n := us.EventsByKind[storage.KindPublish]; n > 0 {
			fmt.Fprintf(&b, ", %d publishes", n)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ToJSON serializes the stats for a detailed report.
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

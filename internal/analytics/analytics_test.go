package analytics

import (
	"strings"
	"testing"
	"time"

	"site-builder/internal/storage"
)

func TestAnalyzeDailyLogs(t *testing.T) {
	testDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	events := []storage.Event{
		{Timestamp: testDate.Add(2 * time.Hour), UserID: "alice", Kind: storage.KindChat, UserMessage: "bakery site", AssistantResponse: "What colors?"},
		{Timestamp: testDate.Add(3 * time.Hour), UserID: "alice", Kind: storage.KindImage},
		{Timestamp: testDate.Add(4 * time.Hour), UserID: "alice", Kind: storage.KindPublish},
		{Timestamp: testDate.Add(6 * time.Hour), UserID: "bob", Kind: storage.KindChat, UserMessage: "hi"},
		// next day
		{Timestamp: testDate.AddDate(0, 0, 1), UserID: "carol", Kind: storage.KindChat},
		// previous day
		{Timestamp: testDate.Add(-time.Second), UserID: "carol", Kind: storage.KindReset},
		// no user
		{Timestamp: testDate.Add(time.Hour), Kind: storage.KindChat},
	}

	stats := AnalyzeDailyLogs(events, testDate.Add(15*time.Hour))

	if stats.Date != "2024-01-15" {
		t.Errorf("Expected date '2024-01-15', got '%s'", stats.Date)
	}
	if stats.TotalEvents != 4 {
		t.Errorf("Expected 4 events, got %d", stats.TotalEvents)
	}
	if stats.UniqueUsers != 2 {
		t.Errorf("Expected 2 unique users, got %d", stats.UniqueUsers)
	}

	expectedKinds := map[string]int{
		storage.KindChat:    2,
		storage.KindImage:   1,
		storage.KindPublish: 1,
	}
	for kind, want := range expectedKinds {
		if got := stats.EventsByKind[kind]; got != want {
			t.Errorf("Expected %d %s events, got %d", want, kind, got)
		}
	}
	if _, ok := stats.EventsByKind[storage.KindReset]; ok {
		t.Error("reset event from another day was counted")
	}

	alice, ok := stats.UserStats["alice"]
	if !ok {
		t.Fatal("Expected stats for alice")
	}
	if alice.Events != 3 {
		t.Errorf("Expected 3 events for alice, got %d", alice.Events)
	}
	if alice.EventsByKind[storage.KindPublish] != 1 {
		t.Errorf("Expected 1 publish for alice, got %d", alice.EventsByKind[storage.KindPublish])
	}
	if bob := stats.UserStats["bob"]; bob.Events != 1 {
		t.Errorf("Expected 1 event for bob, got %d", bob.Events)
	}
}

func TestAnalyzeDailyLogsEmptyData(t *testing.T) {
	testDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	stats := AnalyzeDailyLogs(nil, testDate)

	if stats.Date != "2024-01-15" {
		t.Errorf("Expected date '2024-01-15', got '%s'", stats.Date)
	}
	if stats.TotalEvents != 0 || stats.UniqueUsers != 0 {
		t.Errorf("Expected empty stats, got %+v", stats)
	}
	if stats.EventsByKind == nil || stats.UserStats == nil {
		t.Error("maps must be non-nil so they serialize as {}")
	}
}

func TestGenerateReportSummary(t *testing.T) {
	stats := &DailyStats{
		Date:        "2024-01-15",
		TotalEvents: 5,
		UniqueUsers: 2,
		EventsByKind: map[string]int{
			storage.KindChat:    4,
			storage.KindPublish: 1,
		},
		UserStats: map[string]UserStats{
			"alice": {UserID: "alice", Events: 3, EventsByKind: map[string]int{storage.KindChat: 2, storage.KindPublish: 1}},
			"bob":   {UserID: "bob", Events: 2, EventsByKind: map[string]int{storage.KindChat: 2}},
		},
	}

	summary := stats.GenerateReportSummary()

	for _, expected := range []string{
		"2024-01-15",
		"Total events: 5",
		"Unique users: 2",
		"- chat: 4",
		"- publish: 1",
		"User alice: 3 events, 1 publishes",
		"User bob: 2 events\n",
	} {
		if !strings.Contains(summary, expected) {
			t.Errorf("Expected summary to contain %q. Summary: %s", expected, summary)
		}
	}
	if strings.Index(summary, "User alice") > strings.Index(summary, "User bob") {
		t.Error("users should be listed in id order")
	}
}

func TestToJSON(t *testing.T) {
	stats := AnalyzeDailyLogs([]storage.Event{
		{Timestamp: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), UserID: "alice", Kind: storage.KindGenerate},
	}, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	jsonStr, err := stats.ToJSON()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, want := range []string{`"date": "2024-01-15"`, `"generate": 1`, `"user_id": "alice"`} {
		if !strings.Contains(jsonStr, want) {
			t.Errorf("Expected JSON to contain %s, got: %s", want, jsonStr)
		}
	}
}

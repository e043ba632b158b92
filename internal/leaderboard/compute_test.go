package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/learnloophq/learnloop-backend/internal/models"
	"gorm.io/gorm"
)

func setupComputeDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:compute_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(&models.User{}, &models.PointTransaction{}, &models.LeaderboardSnapshot{}); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	sqlDB, errDB := db.DB()
	if errDB != nil {
		t.Fatalf("unwrap db: %v", errDB)
	}
	// SQLite allows a single writer; one pooled connection keeps the
	// concurrent compute paths from hitting lock errors.
	sqlDB.SetMaxOpenConns(1)
	return db
}

func createRankUser(t *testing.T, db *gorm.DB, name string, totalPoints int64) models.User {
	t.Helper()
	user := models.User{Username: name, Email: name + "@example.com", Password: "x", DisplayName: name, TotalPoints: totalPoints}
	if errCreate := db.Create(&user).Error; errCreate != nil {
		t.Fatalf("create user %s: %v", name, errCreate)
	}
	return user
}

func createLedgerEntry(t *testing.T, db *gorm.DB, userID uint64, pointsDelta int64, createdAt time.Time) {
	t.Helper()
	entry := models.PointTransaction{UserID: userID, Points: pointsDelta, Source: models.PointSourceCourse}
	if errCreate := db.Create(&entry).Error; errCreate != nil {
		t.Fatalf("create ledger entry: %v", errCreate)
	}
	if errUpdate := db.Model(&models.PointTransaction{}).Where("id = ?", entry.ID).Update("created_at", createdAt).Error; errUpdate != nil {
		t.Fatalf("backdate ledger entry: %v", errUpdate)
	}
}

func loadSnapshotEntries(t *testing.T, db *gorm.DB, typ string) []models.LeaderboardEntry {
	t.Helper()
	var snapshot models.LeaderboardSnapshot
	if errFind := db.Where("type = ?", typ).First(&snapshot).Error; errFind != nil {
		t.Fatalf("load %s snapshot: %v", typ, errFind)
	}
	var entries []models.LeaderboardEntry
	if errUnmarshal := json.Unmarshal(snapshot.Entries, &entries); errUnmarshal != nil {
		t.Fatalf("decode %s snapshot: %v", typ, errUnmarshal)
	}
	return entries
}

func TestWeeklyComputeSumsOnlyWindowedEntries(t *testing.T) {
	db := setupComputeDB(t)
	u1 := createRankUser(t, db, "u1", 0)
	u2 := createRankUser(t, db, "u2", 0)

	now := time.Now().UTC()
	createLedgerEntry(t, db, u1.ID, 50, now.AddDate(0, 0, -1))
	createLedgerEntry(t, db, u1.ID, 20, now.AddDate(0, 0, -8))
	createLedgerEntry(t, db, u1.ID, 20, now.AddDate(0, 0, -2))
	createLedgerEntry(t, db, u2.ID, 30, now.AddDate(0, 0, -2))

	computer := NewComputer(db, nil)
	if errCompute := computer.Compute(context.Background(), models.LeaderboardWeekly); errCompute != nil {
		t.Fatalf("compute weekly: %v", errCompute)
	}

	entries := loadSnapshotEntries(t, db, models.LeaderboardWeekly)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != u1.ID || entries[0].Points != 70 || entries[0].Rank != 1 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].UserID != u2.ID || entries[1].Points != 30 || entries[1].Rank != 2 {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
	if entries[0].Change != 0 || entries[1].Change != 0 {
		t.Fatalf("expected zero change on first snapshot, got %d and %d", entries[0].Change, entries[1].Change)
	}
}

func TestComputeBreaksTiesByUserID(t *testing.T) {
	db := setupComputeDB(t)
	u1 := createRankUser(t, db, "first", 0)
	u2 := createRankUser(t, db, "second", 0)

	now := time.Now().UTC()
	createLedgerEntry(t, db, u2.ID, 40, now.AddDate(0, 0, -1))
	createLedgerEntry(t, db, u1.ID, 40, now.AddDate(0, 0, -1))

	computer := NewComputer(db, nil)
	if errCompute := computer.Compute(context.Background(), models.LeaderboardWeekly); errCompute != nil {
		t.Fatalf("compute weekly: %v", errCompute)
	}

	entries := loadSnapshotEntries(t, db, models.LeaderboardWeekly)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != u1.ID || entries[1].UserID != u2.ID {
		t.Fatalf("expected tie broken by lower user id first, got %d then %d", entries[0].UserID, entries[1].UserID)
	}
}

func TestComputeDiffsRanksAgainstPreviousSnapshot(t *testing.T) {
	db := setupComputeDB(t)
	u1 := createRankUser(t, db, "mover", 0)
	u2 := createRankUser(t, db, "slipper", 0)

	now := time.Now().UTC()
	createLedgerEntry(t, db, u1.ID, 10, now.AddDate(0, 0, -3))
	createLedgerEntry(t, db, u2.ID, 50, now.AddDate(0, 0, -3))

	computer := NewComputer(db, nil)
	if errCompute := computer.Compute(context.Background(), models.LeaderboardWeekly); errCompute != nil {
		t.Fatalf("first compute: %v", errCompute)
	}

	createLedgerEntry(t, db, u1.ID, 100, now.AddDate(0, 0, -1))
	if errCompute := computer.Compute(context.Background(), models.LeaderboardWeekly); errCompute != nil {
		t.Fatalf("second compute: %v", errCompute)
	}

	entries := loadSnapshotEntries(t, db, models.LeaderboardWeekly)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != u1.ID || entries[0].Change != 1 {
		t.Fatalf("expected mover at rank 1 with change +1, got %+v", entries[0])
	}
	if entries[1].UserID != u2.ID || entries[1].Change != -1 {
		t.Fatalf("expected slipper at rank 2 with change -1, got %+v", entries[1])
	}
}

func TestAllTimeComputeReadsBalancesAndSkipsDisabled(t *testing.T) {
	db := setupComputeDB(t)
	top := createRankUser(t, db, "top", 500)
	mid := createRankUser(t, db, "mid", 200)
	blocked := createRankUser(t, db, "blocked", 900)
	if errUpdate := db.Model(&models.User{}).Where("id = ?", blocked.ID).Update("disabled", true).Error; errUpdate != nil {
		t.Fatalf("disable user: %v", errUpdate)
	}

	computer := NewComputer(db, nil)
	if errCompute := computer.Compute(context.Background(), models.LeaderboardAllTime); errCompute != nil {
		t.Fatalf("compute all-time: %v", errCompute)
	}

	entries := loadSnapshotEntries(t, db, models.LeaderboardAllTime)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != top.ID || entries[0].Points != 500 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].UserID != mid.ID || entries[1].Points != 200 {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

func TestComputeKeepsNetNegativeUsersRanked(t *testing.T) {
	db := setupComputeDB(t)
	user := createRankUser(t, db, "spender", 0)

	now := time.Now().UTC()
	createLedgerEntry(t, db, user.ID, 10, now.AddDate(0, 0, -2))
	createLedgerEntry(t, db, user.ID, -40, now.AddDate(0, 0, -1))

	computer := NewComputer(db, nil)
	if errCompute := computer.Compute(context.Background(), models.LeaderboardWeekly); errCompute != nil {
		t.Fatalf("compute weekly: %v", errCompute)
	}

	entries := loadSnapshotEntries(t, db, models.LeaderboardWeekly)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Points != -30 || entries[0].Rank != 1 {
		t.Fatalf("expected net -30 at rank 1, got %+v", entries[0])
	}
}

func TestComputeAllWritesEverySnapshotType(t *testing.T) {
	db := setupComputeDB(t)
	user := createRankUser(t, db, "runner", 25)
	createLedgerEntry(t, db, user.ID, 25, time.Now().UTC().AddDate(0, 0, -1))

	computer := NewComputer(db, nil)
	if errCompute := computer.ComputeAll(context.Background()); errCompute != nil {
		t.Fatalf("compute all: %v", errCompute)
	}

	var count int64
	if errCount := db.Model(&models.LeaderboardSnapshot{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count snapshots: %v", errCount)
	}
	if count != int64(len(models.LeaderboardTypes)) {
		t.Fatalf("expected %d snapshots, got %d", len(models.LeaderboardTypes), count)
	}
}

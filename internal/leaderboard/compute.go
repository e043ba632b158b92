// Package leaderboard computes ranked point snapshots over fixed windows and
// keeps them refreshed on a schedule.
package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/learnloophq/learnloop-backend/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// allTimeLimit caps the all-time leaderboard at the top balances.
const allTimeLimit = 100

// Computer aggregates the point ledger into leaderboard snapshots.
type Computer struct {
	db    *gorm.DB
	cache *Cache
}

// NewComputer constructs a Computer. The cache may be nil.
func NewComputer(db *gorm.DB, cache *Cache) *Computer {
	return &Computer{db: db, cache: cache}
}

// aggregateRow is the scan target for ranking queries.
type aggregateRow struct {
	UserID        uint64
	DisplayName   string
	InstitutionID *uint64
	Points        int64
}

// windowStart returns the aggregation window start for a windowed snapshot
// type. The all-time type has no window.
func windowStart(typ string, now time.Time) (time.Time, bool) {
	switch typ {
	case models.LeaderboardWeekly:
		return now.AddDate(0, 0, -7), true
	case models.LeaderboardMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

// Compute builds and stores the snapshot for one leaderboard type.
//
// Windowed types sum ledger entries inside the window; aggregates are not
// clamped, so a net-negative user still ranks. The all-time type reads the
// denormalized balances directly, capped at the top 100. Entries are ordered
// by points descending with ties broken by user ID ascending, and rank
// movement is diffed against the previous snapshot of the same type.
func (c *Computer) Compute(ctx context.Context, typ string) error {
	if c == nil || c.db == nil {
		return errors.New("leaderboard: computer not initialized")
	}
	if !models.ValidLeaderboardType(typ) {
		return fmt.Errorf("leaderboard: unknown type: %s", typ)
	}
	now := time.Now().UTC()

	rows, errRows := c.aggregate(ctx, typ, now)
	if errRows != nil {
		log.WithError(errRows).Errorf("leaderboard: aggregate failed (type=%s)", typ)
		return errRows
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].UserID < rows[j].UserID
	})

	prevRanks, errPrev := c.previousRanks(ctx, typ)
	if errPrev != nil {
		log.WithError(errPrev).Errorf("leaderboard: load previous snapshot failed (type=%s)", typ)
		return errPrev
	}

	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		rank := i + 1
		change := 0
		if prev, ok := prevRanks[row.UserID]; ok {
			change = prev - rank
		}
		entries = append(entries, models.LeaderboardEntry{
			UserID:        row.UserID,
			DisplayName:   row.DisplayName,
			InstitutionID: row.InstitutionID,
			Points:        row.Points,
			Rank:          rank,
			Change:        change,
		})
	}

	payload, errMarshal := json.Marshal(entries)
	if errMarshal != nil {
		return errMarshal
	}

	if errWrite := c.writeSnapshot(ctx, typ, payload, len(entries), now); errWrite != nil {
		log.WithError(errWrite).Errorf("leaderboard: write snapshot failed (type=%s)", typ)
		return errWrite
	}

	c.cache.Invalidate(ctx, typ)
	log.Infof("leaderboard: computed %s snapshot (entries=%d)", typ, len(entries))
	return nil
}

// ComputeAll computes every leaderboard type concurrently. The three types
// share no mutable state. Each failure is logged; the first error observed is
// returned.
func (c *Computer) ComputeAll(ctx context.Context) error {
	if c == nil || c.db == nil {
		return errors.New("leaderboard: computer not initialized")
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, typ := range models.LeaderboardTypes {
		wg.Add(1)
		typCopy := typ
		go func() {
			defer wg.Done()
			if errCompute := c.Compute(ctx, typCopy); errCompute != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = errCompute
				}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return firstErr
}

func (c *Computer) aggregate(ctx context.Context, typ string, now time.Time) ([]aggregateRow, error) {
	var rows []aggregateRow
	if typ == models.LeaderboardAllTime {
		errScan := c.db.WithContext(ctx).
			Model(&models.User{}).
			Select("id AS user_id, display_name, institution_id, total_points AS points").
			Where("disabled = ?", false).
			Order("total_points DESC, id ASC").
			Limit(allTimeLimit).
			Scan(&rows).Error
		if errScan != nil {
			return nil, errScan
		}
		return rows, nil
	}

	start, ok := windowStart(typ, now)
	if !ok {
		return nil, fmt.Errorf("leaderboard: no window for type: %s", typ)
	}
	errScan := c.db.WithContext(ctx).
		Model(&models.PointTransaction{}).
		Select("point_transactions.user_id AS user_id, users.display_name AS display_name, users.institution_id AS institution_id, SUM(point_transactions.points) AS points").
		Joins("JOIN users ON users.id = point_transactions.user_id").
		Where("point_transactions.created_at >= ?", start).
		Group("point_transactions.user_id, users.display_name, users.institution_id").
		Scan(&rows).Error
	if errScan != nil {
		return nil, errScan
	}
	return rows, nil
}

// previousRanks loads the prior snapshot for a type as a userID→rank map.
func (c *Computer) previousRanks(ctx context.Context, typ string) (map[uint64]int, error) {
	var snapshot models.LeaderboardSnapshot
	errFind := c.db.WithContext(ctx).Where("type = ?", typ).First(&snapshot).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return map[uint64]int{}, nil
	}
	if errFind != nil {
		return nil, errFind
	}

	var entries []models.LeaderboardEntry
	if errUnmarshal := json.Unmarshal(snapshot.Entries, &entries); errUnmarshal != nil {
		// A corrupt snapshot only costs the rank diff; ranking proceeds.
		log.WithError(errUnmarshal).Warnf("leaderboard: previous %s snapshot unreadable", typ)
		return map[uint64]int{}, nil
	}

	ranks := make(map[uint64]int, len(entries))
	for _, entry := range entries {
		ranks[entry.UserID] = entry.Rank
	}
	return ranks, nil
}

// writeSnapshot replaces the stored snapshot for a type. The update is fenced
// on computed_at so that when two runs race, the one computed later wins
// regardless of write order.
func (c *Computer) writeSnapshot(ctx context.Context, typ string, payload []byte, total int, computedAt time.Time) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.LeaderboardSnapshot
		errFind := tx.Where("type = ?", typ).First(&existing).Error
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return tx.Create(&models.LeaderboardSnapshot{
				Type:         typ,
				Entries:      datatypes.JSON(payload),
				TotalEntries: total,
				ComputedAt:   computedAt,
			}).Error
		}
		if errFind != nil {
			return errFind
		}

		res := tx.Model(&models.LeaderboardSnapshot{}).
			Where("id = ? AND computed_at < ?", existing.ID, computedAt).
			Updates(map[string]any{
				"entries":       datatypes.JSON(payload),
				"total_entries": total,
				"computed_at":   computedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			log.Warnf("leaderboard: discarded stale %s snapshot (computed_at=%s)", typ, computedAt.Format(time.RFC3339))
		}
		return nil
	})
}

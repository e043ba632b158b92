package rewards

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/learnloophq/learnloop-backend/internal/apperr"
	"github.com/learnloophq/learnloop-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupRedeemDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:redeem_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(
		&models.User{},
		&models.PointTransaction{},
		&models.Reward{},
		&models.Redemption{},
		&models.Purchase{},
		&models.ShippingOrder{},
		&models.Course{},
		&models.Webinar{},
	); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return db
}

func createRedeemUser(t *testing.T, db *gorm.DB, name string, balance int64) models.User {
	t.Helper()
	user := models.User{Username: name, Email: name + "@example.com", Password: "x", DisplayName: name, TotalPoints: balance}
	if errCreate := db.Create(&user).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}
	return user
}

func TestRedeemGiftCardCompletes(t *testing.T) {
	db := setupRedeemDB(t)
	user := createRedeemUser(t, db, "gina", 500)
	reward := models.Reward{Title: "Coffee Card", Type: models.RewardTypeGiftCard, PointsCost: 200, Available: true, Provider: "brewco"}
	if errCreate := db.Create(&reward).Error; errCreate != nil {
		t.Fatalf("create reward: %v", errCreate)
	}

	processor := NewProcessor(db)
	result, errRedeem := processor.Redeem(context.Background(), RedeemParams{UserID: user.ID, RewardID: reward.ID})
	if errRedeem != nil {
		t.Fatalf("redeem: %v", errRedeem)
	}
	if result.Status != models.RedemptionStatusCompleted {
		t.Fatalf("expected completed, got %s", result.Status)
	}
	if result.PointsRemaining != 300 {
		t.Fatalf("expected 300 points remaining, got %d", result.PointsRemaining)
	}

	var redemption models.Redemption
	if errFind := db.First(&redemption, result.RedemptionID).Error; errFind != nil {
		t.Fatalf("load redemption: %v", errFind)
	}
	if !strings.HasPrefix(redemption.GiftCardCode, "GC-") {
		t.Fatalf("expected gift card code, got %q", redemption.GiftCardCode)
	}
	if redemption.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}

	var entry models.PointTransaction
	if errFind := db.Where("user_id = ? AND source = ?", user.ID, models.PointSourceRedemption).First(&entry).Error; errFind != nil {
		t.Fatalf("load ledger entry: %v", errFind)
	}
	if entry.Points != -200 {
		t.Fatalf("expected -200 ledger entry, got %d", entry.Points)
	}
}

func TestRedeemInsufficientBalanceChangesNothing(t *testing.T) {
	db := setupRedeemDB(t)
	user := createRedeemUser(t, db, "poor", 50)
	reward := models.Reward{Title: "Big Prize", Type: models.RewardTypeGiftCard, PointsCost: 200, Available: true}
	if errCreate := db.Create(&reward).Error; errCreate != nil {
		t.Fatalf("create reward: %v", errCreate)
	}

	processor := NewProcessor(db)
	_, errRedeem := processor.Redeem(context.Background(), RedeemParams{UserID: user.ID, RewardID: reward.ID})
	if errRedeem == nil {
		t.Fatal("expected error for insufficient balance")
	}
	if apperr.CodeOf(errRedeem) != apperr.CodeFailedPrecondition {
		t.Fatalf("expected failed precondition, got %v", errRedeem)
	}
	if !strings.Contains(errRedeem.Error(), "200") || !strings.Contains(errRedeem.Error(), "50") {
		t.Fatalf("expected cost and balance in message, got %q", errRedeem.Error())
	}

	var reloaded models.User
	if errFind := db.First(&reloaded, user.ID).Error; errFind != nil {
		t.Fatalf("reload user: %v", errFind)
	}
	if reloaded.TotalPoints != 50 {
		t.Fatalf("expected untouched balance 50, got %d", reloaded.TotalPoints)
	}

	var count int64
	if errCount := db.Model(&models.Redemption{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count redemptions: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("expected no redemption rows, got %d", count)
	}
}

func TestRedeemUnavailableRewardRejected(t *testing.T) {
	db := setupRedeemDB(t)
	user := createRedeemUser(t, db, "keen", 500)
	reward := models.Reward{Title: "Retired", Type: models.RewardTypeGiftCard, PointsCost: 100, Available: false}
	if errCreate := db.Create(&reward).Error; errCreate != nil {
		t.Fatalf("create reward: %v", errCreate)
	}

	processor := NewProcessor(db)
	_, errRedeem := processor.Redeem(context.Background(), RedeemParams{UserID: user.ID, RewardID: reward.ID})
	if errRedeem == nil {
		t.Fatal("expected error for unavailable reward")
	}
	if apperr.CodeOf(errRedeem) != apperr.CodeFailedPrecondition {
		t.Fatalf("expected failed precondition, got %v", errRedeem)
	}
}

func TestRedeemPhysicalWithoutAddressFails(t *testing.T) {
	db := setupRedeemDB(t)
	user := createRedeemUser(t, db, "noaddr", 500)
	reward := models.Reward{Title: "Hoodie", Type: models.RewardTypePhysical, PointsCost: 300, Available: true}
	if errCreate := db.Create(&reward).Error; errCreate != nil {
		t.Fatalf("create reward: %v", errCreate)
	}

	processor := NewProcessor(db)
	_, errRedeem := processor.Redeem(context.Background(), RedeemParams{UserID: user.ID, RewardID: reward.ID})
	if errRedeem == nil {
		t.Fatal("expected fulfillment error")
	}

	var redemption models.Redemption
	if errFind := db.Where("user_id = ?", user.ID).First(&redemption).Error; errFind != nil {
		t.Fatalf("load redemption: %v", errFind)
	}
	if redemption.Status != models.RedemptionStatusFailed {
		t.Fatalf("expected failed status, got %s", redemption.Status)
	}
	if redemption.Error != "User shipping address not found" {
		t.Fatalf("unexpected error text: %q", redemption.Error)
	}

	// The debit stands even when fulfillment fails; the failed redemption
	// records what went wrong.
	var reloaded models.User
	if errFind := db.First(&reloaded, user.ID).Error; errFind != nil {
		t.Fatalf("reload user: %v", errFind)
	}
	if reloaded.TotalPoints != 200 {
		t.Fatalf("expected balance 200 after debit, got %d", reloaded.TotalPoints)
	}
}

func TestRedeemPhysicalCreatesShippingOrder(t *testing.T) {
	db := setupRedeemDB(t)
	user := createRedeemUser(t, db, "shipped", 500)
	address := datatypes.JSON([]byte(`{"line1":"1 Main St","city":"Springfield"}`))
	if errUpdate := db.Model(&models.User{}).Where("id = ?", user.ID).Update("shipping_address", address).Error; errUpdate != nil {
		t.Fatalf("set address: %v", errUpdate)
	}
	reward := models.Reward{Title: "Hoodie", Type: models.RewardTypePhysical, PointsCost: 300, Available: true}
	if errCreate := db.Create(&reward).Error; errCreate != nil {
		t.Fatalf("create reward: %v", errCreate)
	}

	processor := NewProcessor(db)
	result, errRedeem := processor.Redeem(context.Background(), RedeemParams{UserID: user.ID, RewardID: reward.ID})
	if errRedeem != nil {
		t.Fatalf("redeem: %v", errRedeem)
	}

	var order models.ShippingOrder
	if errFind := db.Where("redemption_id = ?", result.RedemptionID).First(&order).Error; errFind != nil {
		t.Fatalf("load shipping order: %v", errFind)
	}
	if order.Status != "pending" {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if order.RewardTitle != "Hoodie" {
		t.Fatalf("unexpected reward title: %s", order.RewardTitle)
	}

	var redemption models.Redemption
	if errFind := db.First(&redemption, result.RedemptionID).Error; errFind != nil {
		t.Fatalf("load redemption: %v", errFind)
	}
	if redemption.ShippingOrderID == nil || *redemption.ShippingOrderID != order.ID {
		t.Fatalf("expected shipping order linked, got %+v", redemption.ShippingOrderID)
	}
}

func TestRedeemAddonGrantsCourseAccess(t *testing.T) {
	db := setupRedeemDB(t)
	user := createRedeemUser(t, db, "learner", 500)
	course := models.Course{Title: "Bonus Course", Published: true}
	if errCreate := db.Create(&course).Error; errCreate != nil {
		t.Fatalf("create course: %v", errCreate)
	}
	courseID := course.ID
	reward := models.Reward{
		Title:      "Bonus Course",
		Type:       models.RewardTypeAddon,
		AddonType:  models.AddonTypeCourse,
		CourseID:   &courseID,
		PointsCost: 150,
		Available:  true,
	}
	if errCreate := db.Create(&reward).Error; errCreate != nil {
		t.Fatalf("create reward: %v", errCreate)
	}

	processor := NewProcessor(db)
	result, errRedeem := processor.Redeem(context.Background(), RedeemParams{UserID: user.ID, RewardID: reward.ID})
	if errRedeem != nil {
		t.Fatalf("redeem: %v", errRedeem)
	}

	var purchase models.Purchase
	if errFind := db.Where("redemption_id = ?", result.RedemptionID).First(&purchase).Error; errFind != nil {
		t.Fatalf("load purchase: %v", errFind)
	}
	if purchase.ItemType != models.AddonTypeCourse || purchase.CourseID == nil || *purchase.CourseID != courseID {
		t.Fatalf("unexpected purchase: %+v", purchase)
	}
}

func TestRedeemIdempotencyKeyReplaysStoredOutcome(t *testing.T) {
	db := setupRedeemDB(t)
	user := createRedeemUser(t, db, "retry", 500)
	reward := models.Reward{Title: "Coffee Card", Type: models.RewardTypeGiftCard, PointsCost: 200, Available: true}
	if errCreate := db.Create(&reward).Error; errCreate != nil {
		t.Fatalf("create reward: %v", errCreate)
	}

	processor := NewProcessor(db)
	params := RedeemParams{UserID: user.ID, RewardID: reward.ID, IdempotencyKey: "req-123"}

	first, errFirst := processor.Redeem(context.Background(), params)
	if errFirst != nil {
		t.Fatalf("first redeem: %v", errFirst)
	}
	second, errSecond := processor.Redeem(context.Background(), params)
	if errSecond != nil {
		t.Fatalf("second redeem: %v", errSecond)
	}

	if first.RedemptionID != second.RedemptionID {
		t.Fatalf("expected same redemption, got %d and %d", first.RedemptionID, second.RedemptionID)
	}
	if second.PointsRemaining != 300 {
		t.Fatalf("expected balance charged once, got %d remaining", second.PointsRemaining)
	}

	var count int64
	if errCount := db.Model(&models.Redemption{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count redemptions: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected 1 redemption row, got %d", count)
	}
}

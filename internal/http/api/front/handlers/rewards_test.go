package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/learnloophq/learnloop-backend/internal/models"
	"github.com/learnloophq/learnloop-backend/internal/rewards"
	"gorm.io/gorm"
)

func setupRewardsDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:frontrewards_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

func TestRedeemEndpointReturnsSuccessPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupRewardsDB(t)

	user := models.User{Username: "spender", Email: "spender@example.com", Password: "x", DisplayName: "Spender", TotalPoints: 500}
	if errCreate := db.Create(&user).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}
	reward := models.Reward{Title: "Coffee Card", Type: models.RewardTypeGiftCard, PointsCost: 100, Available: true}
	if errCreate := db.Create(&reward).Error; errCreate != nil {
		t.Fatalf("create reward: %v", errCreate)
	}

	handler := NewRewardsHandler(db, rewards.NewProcessor(db))
	router := gin.New()
	router.POST("/v0/front/rewards/redeem", asUser(user.ID), handler.Redeem)

	body := bytes.NewBufferString(fmt.Sprintf(`{"reward_id":%d}`, reward.ID))
	req := httptest.NewRequest(http.MethodPost, "/v0/front/rewards/redeem", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success         *bool  `json:"success"`
		RedemptionID    uint64 `json:"redemption_id"`
		Status          string `json:"status"`
		PointsRemaining int64  `json:"points_remaining"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if resp.Success == nil || !*resp.Success {
		t.Fatalf("expected success=true in response, got %s", w.Body.String())
	}
	if resp.Status != models.RedemptionStatusCompleted || resp.RedemptionID == 0 {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
	if resp.PointsRemaining != 400 {
		t.Fatalf("expected 400 points remaining, got %d", resp.PointsRemaining)
	}
}

func TestRedeemEndpointRejectsUnavailableReward(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupRewardsDB(t)

	user := models.User{Username: "eager", Email: "eager@example.com", Password: "x", DisplayName: "Eager", TotalPoints: 500}
	if errCreate := db.Create(&user).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}
	reward := models.Reward{Title: "Retired", Type: models.RewardTypeGiftCard, PointsCost: 100, Available: false}
	if errCreate := db.Create(&reward).Error; errCreate != nil {
		t.Fatalf("create reward: %v", errCreate)
	}

	handler := NewRewardsHandler(db, rewards.NewProcessor(db))
	router := gin.New()
	router.POST("/v0/front/rewards/redeem", asUser(user.ID), handler.Redeem)

	body := bytes.NewBufferString(fmt.Sprintf(`{"reward_id":%d}`, reward.ID))
	req := httptest.NewRequest(http.MethodPost, "/v0/front/rewards/redeem", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unavailable reward, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded models.User
	if errFind := db.First(&reloaded, user.ID).Error; errFind != nil {
		t.Fatalf("reload user: %v", errFind)
	}
	if reloaded.TotalPoints != 500 {
		t.Fatalf("expected untouched balance, got %d", reloaded.TotalPoints)
	}
}

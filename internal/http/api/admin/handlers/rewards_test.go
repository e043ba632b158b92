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
	"gorm.io/gorm"
)

func setupRewardsDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:adminrewards_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(&models.Reward{}); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return db
}

func TestCreateRewardPersistsUnavailableFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupRewardsDB(t)

	handler := NewRewardHandler(db)
	router := gin.New()
	router.POST("/v0/admin/rewards", handler.Create)

	body := bytes.NewBufferString(`{"title":"Hidden Prize","type":"gift-card","points_cost":100,"available":false}`)
	req := httptest.NewRequest(http.MethodPost, "/v0/admin/rewards", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created models.Reward
	if errDecode := json.Unmarshal(w.Body.Bytes(), &created); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}

	var stored models.Reward
	if errFind := db.First(&stored, created.ID).Error; errFind != nil {
		t.Fatalf("load reward: %v", errFind)
	}
	if stored.Available {
		t.Fatal("expected available=false to survive the insert")
	}
}

func TestCreateRewardDefaultsToAvailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupRewardsDB(t)

	handler := NewRewardHandler(db)
	router := gin.New()
	router.POST("/v0/admin/rewards", handler.Create)

	body := bytes.NewBufferString(`{"title":"Open Prize","type":"physical","points_cost":50}`)
	req := httptest.NewRequest(http.MethodPost, "/v0/admin/rewards", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created models.Reward
	if errDecode := json.Unmarshal(w.Body.Bytes(), &created); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}

	var stored models.Reward
	if errFind := db.First(&stored, created.ID).Error; errFind != nil {
		t.Fatalf("load reward: %v", errFind)
	}
	if !stored.Available {
		t.Fatal("expected omitted available to default to true")
	}
}

func TestCreateRewardRejectsUnknownType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupRewardsDB(t)

	handler := NewRewardHandler(db)
	router := gin.New()
	router.POST("/v0/admin/rewards", handler.Create)

	body := bytes.NewBufferString(`{"title":"Odd","type":"voucher","points_cost":10}`)
	req := httptest.NewRequest(http.MethodPost, "/v0/admin/rewards", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

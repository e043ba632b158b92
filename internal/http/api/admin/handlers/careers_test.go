package handlers

import (
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

func setupCareersDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:careers_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(&models.Career{}); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return db
}

func TestCareersSeedEndpointInsertsOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupCareersDB(t)

	handler := NewCareerSeedHandler(db)
	router := gin.New()
	router.POST("/api/careers/seed", handler.Seed)
	router.GET("/api/careers/seed", handler.Status)

	req := httptest.NewRequest(http.MethodPost, "/api/careers/seed", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first seed: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var first struct {
		Inserted int `json:"inserted"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &first); errDecode != nil {
		t.Fatalf("decode first response: %v", errDecode)
	}
	if first.Inserted == 0 {
		t.Fatal("expected rows inserted on first seed")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/careers/seed", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("second seed: expected 200, got %d", w.Code)
	}
	var second struct {
		Inserted int `json:"inserted"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &second); errDecode != nil {
		t.Fatalf("decode second response: %v", errDecode)
	}
	if second.Inserted != 0 {
		t.Fatalf("expected repeated seed to insert nothing, got %d", second.Inserted)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/careers/seed", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", w.Code)
	}
	var status struct {
		Count  int64 `json:"count"`
		Seeded bool  `json:"seeded"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &status); errDecode != nil {
		t.Fatalf("decode status: %v", errDecode)
	}
	if !status.Seeded || status.Count != int64(first.Inserted) {
		t.Fatalf("unexpected status: %+v", status)
	}
}

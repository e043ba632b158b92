// Package seed loads initial content catalogs into the database.
package seed

import (
	"context"
	"errors"

	"github.com/learnloophq/learnloop-backend/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// careerSeed is the embedded careers-explorer catalog.
var careerSeed = []models.Career{
	{
		Title:       "Software Engineer",
		Field:       "technology",
		Description: "Designs, builds, and maintains software systems.",
		SalaryMin:   70000, SalaryMax: 160000,
		Tags: datatypes.JSON([]byte(`["programming","engineering","remote-friendly"]`)),
	},
	{
		Title:       "Data Scientist",
		Field:       "technology",
		Description: "Extracts insight from data using statistics and machine learning.",
		SalaryMin:   80000, SalaryMax: 170000,
		Tags: datatypes.JSON([]byte(`["statistics","python","machine-learning"]`)),
	},
	{
		Title:       "Registered Nurse",
		Field:       "health",
		Description: "Provides and coordinates patient care.",
		SalaryMin:   60000, SalaryMax: 110000,
		Tags: datatypes.JSON([]byte(`["healthcare","patient-care","shift-work"]`)),
	},
	{
		Title:       "Physician",
		Field:       "health",
		Description: "Diagnoses and treats illness and injury.",
		SalaryMin:   180000, SalaryMax: 350000,
		Tags: datatypes.JSON([]byte(`["healthcare","medicine","residency"]`)),
	},
	{
		Title:       "Financial Analyst",
		Field:       "finance",
		Description: "Evaluates investments and builds financial models.",
		SalaryMin:   65000, SalaryMax: 130000,
		Tags: datatypes.JSON([]byte(`["finance","modeling","excel"]`)),
	},
	{
		Title:       "Civil Engineer",
		Field:       "engineering",
		Description: "Plans and oversees infrastructure projects.",
		SalaryMin:   65000, SalaryMax: 120000,
		Tags: datatypes.JSON([]byte(`["construction","infrastructure","licensure"]`)),
	},
	{
		Title:       "Graphic Designer",
		Field:       "creative",
		Description: "Creates visual concepts for print and digital media.",
		SalaryMin:   45000, SalaryMax: 90000,
		Tags: datatypes.JSON([]byte(`["design","branding","portfolio"]`)),
	},
	{
		Title:       "Teacher",
		Field:       "education",
		Description: "Educates students in primary or secondary schools.",
		SalaryMin:   45000, SalaryMax: 85000,
		Tags: datatypes.JSON([]byte(`["education","curriculum","certification"]`)),
	},
	{
		Title:       "Marketing Manager",
		Field:       "business",
		Description: "Plans campaigns and manages brand positioning.",
		SalaryMin:   70000, SalaryMax: 140000,
		Tags: datatypes.JSON([]byte(`["marketing","strategy","analytics"]`)),
	},
	{
		Title:       "Lawyer",
		Field:       "legal",
		Description: "Advises and represents clients on legal matters.",
		SalaryMin:   90000, SalaryMax: 220000,
		Tags: datatypes.JSON([]byte(`["law","bar-exam","litigation"]`)),
	},
}

// Careers bulk-inserts the embedded career catalog. The insert is guarded: a
// non-empty careers table leaves existing rows untouched and inserts nothing,
// making repeated calls idempotent. Returns the number of rows inserted.
func Careers(ctx context.Context, conn *gorm.DB) (int, error) {
	if conn == nil {
		return 0, errors.New("seed: nil connection")
	}

	var count int64
	if errCount := conn.WithContext(ctx).Model(&models.Career{}).Count(&count).Error; errCount != nil {
		return 0, errCount
	}
	if count > 0 {
		return 0, nil
	}

	rows := make([]models.Career, len(careerSeed))
	copy(rows, careerSeed)
	if errCreate := conn.WithContext(ctx).Create(&rows).Error; errCreate != nil {
		return 0, errCreate
	}
	log.Infof("seed: inserted %d careers", len(rows))
	return len(rows), nil
}

// CareerCount returns the number of careers currently stored.
func CareerCount(ctx context.Context, conn *gorm.DB) (int64, error) {
	if conn == nil {
		return 0, errors.New("seed: nil connection")
	}
	var count int64
	errCount := conn.WithContext(ctx).Model(&models.Career{}).Count(&count).Error
	return count, errCount
}

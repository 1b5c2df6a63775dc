package database

import (
	"marco-pos/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateAuditLog records who changed what. Failures are logged, never returned.
func CreateAuditLog(db *gorm.DB, userID uint, entity string, entityID uint, action, details string) {
	if db == nil {
		return
	}
	record := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if err := db.Create(&record).Error; err != nil {
		zap.L().Warn("failed to write audit log",
			zap.String("entity", entity),
			zap.Uint("entity_id", entityID),
			zap.Error(err))
	}
}

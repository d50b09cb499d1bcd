package migrations

import (
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/entities"

	"gorm.io/gorm"
)

// Migrate cria ou atualiza as tabelas da aplicação
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&entities.ComplianceCheck{})
}

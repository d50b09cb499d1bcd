package migrations

import (
	"gorm.io/gorm"
)

// AddIndexes adiciona índices para as consultas de listagem e dashboard
func AddIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_compliance_checks_created_at ON compliance_checks (created_at)",
		"CREATE INDEX IF NOT EXISTS idx_compliance_checks_urgency ON compliance_checks (urgency_level, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_compliance_checks_lead_score ON compliance_checks (lead_quality_score)",
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			return err
		}
	}
	return nil
}

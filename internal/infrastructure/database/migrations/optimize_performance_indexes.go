package migrations

import (
	"github.com/PavaniTiago/compliance-intelligence-api/internal/logging"
	"gorm.io/gorm"
)

// OptimizePerformanceIndexes adiciona índices para agregações em volume
func OptimizePerformanceIndexes(db *gorm.DB) error {
	logging.L().Info("adicionando índices de performance")

	indexes := []string{
		// BRIN para filtros por período em tabelas append-only
		`CREATE INDEX IF NOT EXISTS idx_compliance_checks_created_at_brin ON compliance_checks USING BRIN (created_at)`,
		// GIN para contagem de regras críticas
		`CREATE INDEX IF NOT EXISTS idx_compliance_checks_red_flags ON compliance_checks USING GIN (red_flags jsonb_path_ops)`,
		// Leads com consentimento para follow-up comercial
		`CREATE INDEX IF NOT EXISTS idx_compliance_checks_consent ON compliance_checks (created_at) WHERE marketing_consent = true`,
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			return err
		}
	}

	logging.L().Info("índices de performance criados")
	return nil
}

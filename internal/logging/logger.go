package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger é a instância global do logger; é um Nop até InitLogger ser chamado
	Logger = zap.NewNop()
)

// InitLogger inicializa o logger global com o nível e ambiente informados
func InitLogger(level, env string) error {
	config := zap.NewProductionConfig()
	if env == "development" {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err == nil {
			config.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	logger, err := config.Build(
		zap.Fields(
			zap.String("service", "compliance-intelligence-api"),
			zap.String("env", env),
		),
	)
	if err != nil {
		return err
	}

	Logger = logger
	return nil
}

// L retorna o logger global, nunca nil
func L() *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}

// MaskEmail oculta parte do email para logs
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

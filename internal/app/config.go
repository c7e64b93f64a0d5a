package app

import (
	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
	"github.com/cardnexus/cardnexus-backend/internal/utils"
)

type Config struct {
	Port           string
	Environment    string
	ImportManifest string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:           utils.GetEnv("PORT", "3000", log),
		Environment:    utils.GetEnv("APP_ENV", "development", log),
		ImportManifest: utils.GetEnv("IMPORT_MANIFEST", "configs/import.yaml", log),
	}
}

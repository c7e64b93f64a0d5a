package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/cardnexus/cardnexus-backend/internal/clients/redis"
	"github.com/cardnexus/cardnexus-backend/internal/clients/scanapi"
	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
)

type Clients struct {
	ScanAPI   scanapi.Client
	ScanCache redis.ShortlistCache // nil unless REDIS_ADDR is set
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	scanClient := scanapi.NewClient(log)

	var cache redis.ShortlistCache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		c, err := redis.NewShortlistCache(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init scan cache: %w", err)
		}
		cache = c
	} else {
		log.Info("REDIS_ADDR not set, scan shortlist cache disabled")
	}

	return Clients{
		ScanAPI:   scanClient,
		ScanCache: cache,
	}, nil
}

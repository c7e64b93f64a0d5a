package app

import (
	"github.com/cardnexus/cardnexus-backend/internal/ingestion"
	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
	"github.com/cardnexus/cardnexus-backend/internal/services"
)

type Services struct {
	Matcher  services.CardMatcher
	Card     services.CardService
	Importer ingestion.CardImporter
}

func wireServices(log *logger.Logger, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	matcher := services.NewCardMatcher(reposet.Card, log)
	card := services.NewCardService(reposet.Card, matcher, clients.ScanAPI, clients.ScanCache, log)
	importer := ingestion.NewCardImporter(reposet.Card, log)

	return Services{
		Matcher:  matcher,
		Card:     card,
		Importer: importer,
	}
}

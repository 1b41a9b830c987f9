package api

import (
	"net/http"

	"github.com/JaimeStill/reqguard/internal/config"
	"github.com/JaimeStill/reqguard/pkg/routes"
	"github.com/JaimeStill/reqguard/pkg/storage"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	archive := newArchiveHandler(
		runtime.Storage,
		runtime.Logger,
		storage.MaxListCap,
	)

	routes.Register(
		mux,
		domain.Analyses.Handler().WithMaxBody(cfg.API.MaxRequestSizeBytes()).Routes(),
		domain.Prompts.Handler().Routes(),
		archive.routes(),
	)
}

package handlers

import (
	"log/slog"

	"github.com/drigmma/ankety/internal/broadcast"
	"github.com/drigmma/ankety/internal/config"
	"github.com/drigmma/ankety/internal/database"
	"github.com/drigmma/ankety/internal/flow"
	"github.com/drigmma/ankety/internal/forms"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Store      database.Store
	Catalog    *forms.Catalog
	Engine     *flow.Engine
	Dispatcher *broadcast.Dispatcher
}

package server

import (
	"github.com/huiren/geoaudit/internal/app"
	"github.com/huiren/geoaudit/internal/logging"
)

// Config parameterizes the API server.
type Config struct {
	// ListenAddr is the HTTP listen address, e.g. ":8080".
	ListenAddr string

	// AppConfig configures the underlying Application. Nil means defaults.
	AppConfig *app.Config

	// Logger overrides the default stdout logger.
	Logger logging.Logger
}

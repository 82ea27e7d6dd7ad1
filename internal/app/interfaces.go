package app

import (
	"github.com/talkincode/toughinvoice/config"
	"github.com/talkincode/toughinvoice/internal/apiclient"
	"github.com/talkincode/toughinvoice/internal/session"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// ClientProvider provides the remote api client
type ClientProvider interface {
	Client() *apiclient.Client
}

// SessionProvider provides the entity stores of the running session
type SessionProvider interface {
	Session() *session.Session
}

// AppContext combines all provider interfaces for full application context
// Commands should depend on specific providers or this combined interface
type AppContext interface {
	ConfigProvider
	ClientProvider
	SessionProvider

	// Release flushes logs and frees resources
	Release()
}

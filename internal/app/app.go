package app

import (
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/talkincode/toughinvoice/config"
	"github.com/talkincode/toughinvoice/internal/apiclient"
	"github.com/talkincode/toughinvoice/internal/session"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Application struct {
	appConfig *config.AppConfig
	client    *apiclient.Client
	bus       EventBus.Bus
	session   *session.Session
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider  = (*Application)(nil)
	_ ClientProvider  = (*Application)(nil)
	_ SessionProvider = (*Application)(nil)
	_ AppContext      = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Client() *apiclient.Client {
	return a.client
}

func (a *Application) Session() *session.Session {
	return a.session
}

func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	logger, err := NewLogger(cfg.Logger)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)

	a.client, err = apiclient.NewClient(cfg.Api)
	if err != nil {
		zap.S().Errorf("api client init failed: %v", err)
		return err
	}
	zap.S().Infof("Api endpoint: %s", a.client.BaseURL())

	a.bus = EventBus.New()
	a.session = session.New(session.RemotesOf(a.client), a.bus)
	return nil
}

// NewLogger builds the zap logger: console only, or console teed with a
// rotated json file when file output is enabled.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	if !cfg.FileEnable {
		return zapConfig.Build(zap.AddCaller())
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
		Compress:   false,
	}

	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(lumberJackLogger),
			zapConfig.Level,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			zapConfig.Level,
		),
	)
	return zap.New(core, zap.AddCaller()), nil
}

// Release releases application resources
func (a *Application) Release() {
	_ = zap.L().Sync()
}

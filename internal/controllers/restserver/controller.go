package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Oktaederim/RLT-Berechnung/internal/ahu"
	"github.com/Oktaederim/RLT-Berechnung/internal/log"
	"github.com/Oktaederim/RLT-Berechnung/internal/metrics"
	"github.com/Oktaederim/RLT-Berechnung/internal/session"
	"github.com/Oktaederim/RLT-Berechnung/pkg/config"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const defaultSessionTTL = 24 * time.Hour

// Controller represents the REST server controller
type Controller struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	configProvider config.ConfigProvider
	serverConfig   config.ServerData
	Server         http.Server
	Sessions       *session.Store
	SessionTTL     time.Duration
	Defaults       ahu.Form
	Presets        []config.PresetData
	Metrics        *metrics.Metrics
	logger         *zap.SugaredLogger
	handlers       *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, sc config.ServerData, logger *zap.SugaredLogger) (*Controller, error) {
	ctrl := &Controller{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		serverConfig:   sc,
		Sessions:       session.NewStore(),
		SessionTTL:     defaultSessionTTL,
		logger:         logger,
	}
	ctrl.Metrics = metrics.New(func() float64 { return float64(ctrl.Sessions.Len()) })

	defaults, err := configProvider.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("error loading default inputs: %v", err)
	}
	ctrl.Defaults = ahu.Form(defaults.Values())

	ctrl.Presets, err = configProvider.GetPresets()
	if err != nil {
		return nil, fmt.Errorf("error loading presets: %v", err)
	}

	if sc.SessionTTL != "" {
		ttl, err := time.ParseDuration(sc.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid server.session-ttl %q: %v", sc.SessionTTL, err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("server.session-ttl must be positive, got %v", ttl)
		}
		ctrl.SessionTTL = ttl
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if sc.ListenAddr == "" {
		logger.Info("server.listen-addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		sc.ListenAddr = "0.0.0.0"
	}

	if sc.Port == 0 {
		logger.Info("server.port not provided; defaulting to 8080")
		sc.Port = 8080
	}
	ctrl.serverConfig = sc

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", sc.ListenAddr, sc.Port)
	ctrl.Server.Handler = ctrl.wrap(ctrl.setupRouter())

	return ctrl, nil
}

// StartController starts the REST server and the session janitor
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.serverConfig.Cert != "" && c.serverConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.serverConfig.Cert, c.serverConfig.Key); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	c.Sessions.RunJanitor(c.ctx, c.wg, c.SessionTTL, janitorInterval(c.SessionTTL), func(n int) {
		c.logger.Debugw("pruned idle sessions", "count", n, "remaining", c.Sessions.Len())
	})

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(c.Metrics.Middleware)

	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet)
	router.Handle("/metrics", c.Metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/defaults", c.handlers.GetDefaults).Methods(http.MethodGet)
	api.HandleFunc("/presets", c.handlers.GetPresets).Methods(http.MethodGet)
	api.HandleFunc("/presets/{name}", c.handlers.GetPreset).Methods(http.MethodGet)
	api.HandleFunc("/calculate", c.handlers.Calculate).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/sweep", c.handlers.Sweep).Methods(http.MethodGet)

	api.HandleFunc("/sessions", c.handlers.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", c.handlers.DeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/reference", c.handlers.SetReference).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/reference", c.handlers.ClearReference).Methods(http.MethodDelete)

	return router
}

// wrap adds panic recovery, optional CORS and access logging around the router
func (c *Controller) wrap(router http.Handler) http.Handler {
	var h http.Handler = router

	if c.serverConfig.EnableCORS {
		h = handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(h)
	}

	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{c.logger}))(h)
	return log.HTTPAccessLog(c.logger, h)
}

func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}

// recoveryLogger adapts the sugared logger to handlers.RecoveryHandlerLogger
type recoveryLogger struct {
	logger *zap.SugaredLogger
}

func (r recoveryLogger) Println(v ...interface{}) {
	r.logger.Error(v...)
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/pkg/api"
	"github.com/unbasical/gatekeeper/pkg/constants"
	"github.com/unbasical/gatekeeper/pkg/constants/logging"
	log "github.com/sirupsen/logrus"
)

type restProxy struct {
	pathPrefix string
	port       int32
	configured bool
	appConf    *configs.AppConfig
	config     *api.GatewayProxyConfig
	router     *mux.Router
	server     *http.Server
}

// Implements api.GatewayProxy by exposing the gateway's HTTP entrypoint.
func NewRestProxy(pathPrefix string, port int32) api.GatewayProxy {
	return &restProxy{
		pathPrefix: pathPrefix,
		port:       port,
		configured: false,
		appConf:    nil,
		config:     nil,
		router:     mux.NewRouter(),
		server:     nil,
	}
}

// See Configure() of api.GatewayProxy
func (proxy *restProxy) Configure(appConf *configs.AppConfig, serverConf *api.GatewayProxyConfig) error {
	// Configure subcomponents
	if serverConf.Gate == nil {
		return errors.Errorf("RestProxy: Gate not configured! ")
	}
	if serverConf.Engine == nil {
		return errors.Errorf("RestProxy: Engine not configured! ")
	}
	if err := serverConf.Gate.Configure(appConf); err != nil {
		return err
	}

	// Assign variables
	proxy.appConf = appConf
	proxy.config = serverConf
	proxy.configured = true
	logging.LogForComponent("restProxy").Infoln("Configured RestProxy")
	return nil
}

// See Start() of api.GatewayProxy
func (proxy *restProxy) Start() error {
	if !proxy.configured {
		return errors.Errorf("RestProxy was not configured! Please call Configure(). ")
	}

	// Create server and route handlers
	proxy.router.PathPrefix(constants.EndpointHealth).HandlerFunc(proxy.handleHealth).Methods("GET")
	metricsHandler, err := proxy.appConf.MetricsProvider.GetHTTPMetricsHandler()
	if err == nil && metricsHandler != nil {
		proxy.router.PathPrefix(constants.EndpointMetrics).Handler(metricsHandler)
	}

	// Every other request runs through the authentication gate and, once
	// accepted and enriched, into the forwarding engine.
	gated := proxy.config.Gate.Middleware(proxy.config.Engine)
	proxy.router.PathPrefix(proxy.pathPrefix).Handler(proxy.appConf.MetricsProvider.WrapHTTPHandler(gated))

	proxy.server = &http.Server{
		Handler:      proxy.router,
		Addr:         fmt.Sprintf(":%d", proxy.port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		logging.LogForComponent("restProxy").Infof("Starting server at: http://localhost:%d%s", proxy.port, proxy.pathPrefix)
		if err := proxy.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()
	return nil
}

// See Stop() of api.GatewayProxy
func (proxy *restProxy) Stop(deadline time.Duration) error {
	if proxy.server == nil {
		return errors.Errorf("RestProxy has not been started yet!")
	}
	logging.LogForComponent("restProxy").Infof("Stopping server at: http://localhost:%d%s", proxy.port, proxy.pathPrefix)
	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()
	if err := proxy.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "Error while shutting down server")
	}
	return nil
}

func (proxy *restProxy) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"UP"}`))
}

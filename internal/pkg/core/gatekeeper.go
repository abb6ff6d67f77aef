// Package core wires all gateway components together and drives their
// lifecycle from startup to graceful shutdown.
package core

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/unbasical/gatekeeper/configs"
	apiInt "github.com/unbasical/gatekeeper/internal/pkg/api"
	forwardInt "github.com/unbasical/gatekeeper/internal/pkg/forward"
	gateInt "github.com/unbasical/gatekeeper/internal/pkg/gate"
	refreshInt "github.com/unbasical/gatekeeper/internal/pkg/refresh"
	routeInt "github.com/unbasical/gatekeeper/internal/pkg/route"
	"github.com/unbasical/gatekeeper/internal/pkg/store"
	watcherInt "github.com/unbasical/gatekeeper/internal/pkg/watcher"
	"github.com/unbasical/gatekeeper/pkg/api"
	"github.com/unbasical/gatekeeper/pkg/constants"
	"github.com/unbasical/gatekeeper/pkg/constants/logging"
	"github.com/unbasical/gatekeeper/pkg/forward"
	"github.com/unbasical/gatekeeper/pkg/refresh"
	"github.com/unbasical/gatekeeper/pkg/telemetry"
	"github.com/unbasical/gatekeeper/pkg/watcher"
)

type GatekeeperConfiguration struct {
	// Config paths
	ConfigPath        *string
	ConfigWatcherPath *string

	// Additional config
	PathPrefix *string
	Port       *uint32

	// Configs for telemetry
	MetricProvider *string
}

type Gatekeeper struct {
	configured      bool
	config          *GatekeeperConfiguration
	proxy           api.GatewayProxy
	engine          forward.Engine
	notifier        refresh.Notifier
	configWatcher   watcher.ConfigWatcher
	metricsProvider telemetry.MetricsProvider
}

func (g *Gatekeeper) Configure(config *GatekeeperConfiguration) {
	if g.configured {
		return
	}

	g.config = config
	g.configured = true
}

func (g *Gatekeeper) Start() {
	if !g.configured {
		logging.LogForComponent("main").Fatalf("Gatekeeper was not configured! Please call Configure()!")
	}

	// Init config loader
	configLoader := configs.FileConfigLoader{
		ConfigPath: *g.config.ConfigPath,
	}

	// Start app after config is present
	g.makeConfigWatcher(configLoader, g.config.ConfigWatcherPath)
	g.configWatcher.Watch(g.onConfigLoaded)
	g.stopOnSIGTERM()
}

func (g *Gatekeeper) onConfigLoaded(change watcher.ChangeType, loadedConf *configs.ExternalConfig, err error) {
	if err != nil {
		logging.LogForComponent("main").Fatalln("Unable to parse configuration: ", err.Error())
	}

	if change == watcher.ChangeAll {
		// First load. Configure and start the whole component chain.
		config := new(configs.AppConfig)
		config.Data = loadedConf.Data
		config.Gateway = loadedConf.Gateway
		config.MetricsProvider = g.makeTelemetryMetricsProvider()
		g.metricsProvider = config.MetricsProvider // Stopped gracefully later on

		g.startComponents(config)
		logging.LogForComponent("main").Infof("Gatekeeper is up and serving requests at: http://localhost:%d%s", *g.config.Port, *g.config.PathPrefix)
		return
	}

	if change == watcher.ChangeConf {
		// Configuration changed on disk. The component chain keeps its
		// startup configuration; a refresh cycle picks up route changes.
		logging.LogForComponent("main").Infoln("Configuration files changed, triggering route table refresh")
		if g.notifier != nil {
			g.notifier.Kick()
		}
	}
}

// startComponents builds the chain route store -> definition provider ->
// refresh notifier -> forwarding engine -> authentication gate -> rest proxy.
func (g *Gatekeeper) startComponents(config *configs.AppConfig) {
	alias := config.Gateway.RouteStore

	routeStore := store.MakeRouteStore(config.Data, alias)
	provider := routeInt.NewProvider(routeStore)
	if err := provider.Configure(config, alias); err != nil {
		logging.LogForComponent("main").Fatalln(err.Error())
	}

	g.notifier = refreshInt.NewTicker()
	if err := g.notifier.Configure(config); err != nil {
		logging.LogForComponent("main").Fatalln(err.Error())
	}

	g.engine = forwardInt.NewEngine()
	if err := g.engine.Configure(config, provider, g.notifier.Signals()); err != nil {
		logging.LogForComponent("main").Fatalln(err.Error())
	}
	if err := g.engine.Start(); err != nil {
		logging.LogForComponent("main").Fatalln(err.Error())
	}
	if err := g.notifier.Start(); err != nil {
		logging.LogForComponent("main").Fatalln(err.Error())
	}

	serverConf := api.GatewayProxyConfig{
		Gate:   gateInt.NewAuthenticationGate(gateInt.NewHTTPAuthorityClient()),
		Engine: g.engine,
	}
	g.proxy = apiInt.NewRestProxy(*g.config.PathPrefix, int32(*g.config.Port))
	if err := g.proxy.Configure(config, &serverConf); err != nil {
		logging.LogForComponent("main").Fatalln(err.Error())
	}
	if err := g.proxy.Start(); err != nil {
		logging.LogForComponent("main").Fatalln(err.Error())
	}
}

func (g *Gatekeeper) makeTelemetryMetricsProvider() telemetry.MetricsProvider {
	if g.config.MetricProvider != nil && strings.ToLower(*g.config.MetricProvider) == constants.TelemetryPrometheus {
		provider := &telemetry.Prometheus{}
		if err := provider.Configure(); err != nil {
			logging.LogForComponent("main").Fatalf("Error during configuration of MetricsProvider %q: %s", *g.config.MetricProvider, err.Error())
		}
		return provider
	}
	return telemetry.NewNoopMetricProvider()
}

func (g *Gatekeeper) makeConfigWatcher(configLoader configs.FileConfigLoader, configWatcherPath *string) {
	if configWatcherPath == nil || *configWatcherPath == "" {
		g.configWatcher = watcherInt.NewSimple(configLoader)
	} else {
		g.configWatcher = watcherInt.NewFileWatcher(configLoader, *configWatcherPath)
	}
}

func (g *Gatekeeper) stopOnSIGTERM() {
	interruptChan := make(chan os.Signal, 1)
	signal.Notify(interruptChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)

	// Block until we receive our signal.
	<-interruptChan

	logging.LogForComponent("main").Infoln("Caught SIGTERM...")

	// Stop refresh notifier and engine before the proxy stops accepting requests
	if g.notifier != nil {
		g.notifier.Stop()
	}
	if g.engine != nil {
		g.engine.Stop()
	}

	// Stop metrics provider
	if g.metricsProvider != nil {
		g.metricsProvider.Shutdown()
	}

	// Stop rest proxy if started
	if g.proxy != nil {
		if err := g.proxy.Stop(time.Second * 10); err != nil {
			logging.LogForComponent("main").Warnln(err.Error())
		}
	}
	// Give components enough time for graceful shutdown
	// This terminates earlier, because rest-proxy prints FATAL if http-server is closed
	time.Sleep(5 * time.Second)
}

package main

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/unbasical/gatekeeper/common"
	"github.com/unbasical/gatekeeper/internal/pkg/core"
	"github.com/unbasical/gatekeeper/internal/pkg/util"
	"github.com/unbasical/gatekeeper/pkg/constants/logging"
	"gopkg.in/alecthomas/kingpin.v2"
)

//nolint:gochecknoglobals,gocritic
var (
	app = kingpin.New("gatekeeper", "Gatekeeper API gateway.")

	// Commands
	run = app.Command("run", "Run gatekeeper in production mode.")

	// Config paths
	configurationPath = app.Flag("config", "Path to the configuration yaml.").Short('k').Default("./gatekeeper.yml").Envar("GATEKEEPER_CONF").ExistingFile()
	configWatcherPath = app.Flag("config-watcher-path", "Path where the config watcher should listen for changes.").Envar("CONFIG_WATCHER_PATH").ExistingDir()

	// Additional config
	pathPrefix = app.Flag("path-prefix", "Prefix under which the gateway serves proxied requests.").Default("/").Envar("PATH_PREFIX").String()
	port       = app.Flag("port", "Port on which the gateway endpoint is served.").Short('p').Default("8080").Envar("PORT").Uint32()

	// Logging
	logLevel  = app.Flag("log-level", "Log-Level for Gatekeeper. Must be one of [DEBUG, INFO, WARN, ERROR]").Default("INFO").Envar("LOG_LEVEL").Enum("DEBUG", "INFO", "WARN", "ERROR", "debug", "info", "warn", "error")
	logFormat = app.Flag("log-format", "Log-Format for Gatekeeper. Must be one of [TEXT, JSON]").Default("TEXT").Envar("LOG_FORMAT").Enum("TEXT", "JSON")

	// Configs for telemetry
	metricService = app.Flag("metric-service", "Service that is used for metrics [Prometheus]").Envar("METRIC_SERVICE").Enum("Prometheus", "prometheus")
)

func main() {
	app.HelpFlag.Short('h')
	app.Version(common.Version)

	// Process args and initialize logger
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	log.SetOutput(os.Stdout)
	// Set log format
	setLogFormat()
	// Set log level
	setLogLevel()

	config := core.GatekeeperConfiguration{
		ConfigPath:        configurationPath,
		ConfigWatcherPath: configWatcherPath,
		PathPrefix:        pathPrefix,
		Port:              port,
		MetricProvider:    metricService,
	}

	gatekeeper := core.Gatekeeper{}

	switch cmd {
	case run.FullCommand():
		gatekeeper.Configure(&config)
		gatekeeper.Start()

	default:
		logging.LogForComponent("main").Fatal("Started Gatekeeper with a unknown command!")
	}
}

func setLogFormat() {
	switch *logFormat {
	case "JSON":
		log.SetFormatter(util.UTCFormatter{Formatter: &log.JSONFormatter{}})
	default:
		log.SetFormatter(util.UTCFormatter{Formatter: &log.TextFormatter{FullTimestamp: true}})
	}
}

func setLogLevel() {
	switch strings.ToUpper(*logLevel) {
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	}
	log.Infof("Gatekeeper starting with log level %q...", *logLevel)
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/siegekeeper/engine/internal/autosave"
	"github.com/siegekeeper/engine/internal/config"
	"github.com/siegekeeper/engine/internal/database"
	"github.com/siegekeeper/engine/internal/influx"
	"github.com/siegekeeper/engine/internal/logging"
	"github.com/spf13/viper"
)

// CurrentVersion and BuildDate can be set at build time via ldflags.
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	AppName string = "siegekeeper"
)

var (
	Logger           zerolog.Logger
	LogFile          *os.File
	SessionStartTime time.Time = time.Now()

	dbManager     *database.Manager
	metricsClient *influx.Manager
	saver         *autosave.Coordinator
)

func main() {
	var err error

	err = config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config, using defaults: %v\n", err)
	}

	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		_ = os.Mkdir(logsDir, 0755)
	}

	logPath := logging.LogFilePath(logsDir, AppName, SessionStartTime)
	LogFile, err = os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create/open log file at %s: %v\n", logPath, err)
		Logger = logging.New(nil, viper.GetString("logLevel"))
	} else {
		defer func() { _ = LogFile.Close() }()
		Logger = logging.New(LogFile, viper.GetString("logLevel"))
	}
	Logger.Info().
		Str("version", CurrentVersion).
		Str("build", BuildDate).
		Msg("Starting up")

	dbManager = database.NewManager(Logger)
	err = dbManager.Connect()
	if err != nil {
		panic(fmt.Errorf("failed to connect to database: %w", err))
	}
	defer func() { _ = dbManager.Close() }()

	err = dbManager.Setup()
	if err != nil {
		panic(fmt.Errorf("failed to set up database: %w", err))
	}

	if viper.GetBool("influx.enabled") {
		metricsClient = influx.NewManager(Logger, filepath.Join(logsDir, "influx_backup.gz"))
		err = metricsClient.Connect()
		if err != nil {
			Logger.Warn().Err(err).Msg("Metrics disabled")
			metricsClient = nil
		} else {
			defer metricsClient.Close()
		}
	}

	saver = autosave.NewCoordinator(autosave.Dependencies{
		DB:       dbManager.DB,
		Log:      Logger,
		Interval: viper.GetDuration("autosave.interval"),
	})
	saver.Start()
	defer saver.Stop()

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	err = runCommand(strings.ToLower(args[0]), args[1:])
	if err != nil {
		Logger.Error().Err(err).Str("command", args[0]).Msg("Command failed")
		panic(err)
	}
}

func printUsage() {
	fmt.Println("Usage: siegekeeper <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  create <name>                create a new empty campaign")
	fmt.Println("  export <campaignID> [file]   write a campaign snapshot to a JSON file (.gz for compressed)")
	fmt.Println("  import <file>                restore a snapshot file into a new campaign")
	fmt.Println("  clone <campaignID>           duplicate a campaign in place")
	fmt.Println("  list                         list all campaigns")
	fmt.Println("  delete <campaignID>          remove a campaign and all of its data")
	fmt.Println("  touch <campaignID>           bump a campaign's last-modified timestamp")
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pkg "github.com/amoria/calling/pkg/internal"
	"github.com/amoria/calling/pkg/internal/database"
	"github.com/amoria/calling/pkg/internal/http"
	"github.com/amoria/calling/pkg/internal/services"
	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	color.New(color.FgHiCyan, color.Bold).Println(fmt.Sprintf("Amoria Calling v%s", pkg.AppVersion))

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Connect to database
	if err := database.NewSource(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Connect other services
	if err := services.SetupRedis(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connecting to redis.")
	}
	services.SetupLiveKit()

	// Server
	http.NewServer()
	go http.Listen()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 30s", services.SweepStaleRingingCalls)
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.Start()

	log.Info().Msgf("Calling v%s is started...", pkg.AppVersion)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msgf("Calling v%s is quitting...", pkg.AppVersion)

	quartz.Stop()
}

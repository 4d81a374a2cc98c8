package main

import (
	"github.com/franciscosanchezn/gin-foodgram-api/internal/config"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/repository"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	db    *gorm.DB
	repos *repository.Repositories
)

var rootCmd = &cobra.Command{
	Use:           "manage",
	Short:         "Foodgram administrative commands",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Debug("No .env file found, using system environment variables")
		}
		log.SetFormatter(&log.JSONFormatter{})
		log.SetLevel(config.LevelForEnvironment(config.GetEnvWithDefault("APP_ENV", "development")))

		conf, err := config.LoadConfig()
		if err != nil {
			return err
		}
		db, err = database.InitDatabase(database.DatabaseConfig{
			Driver:   conf.DBDriver,
			URL:      conf.DatabaseURL,
			Host:     conf.DBHost,
			Port:     conf.DBPort,
			User:     conf.DBUser,
			Password: conf.DBPassword,
			Name:     conf.DBName,
			SSLMode:  conf.DBSSLMode,
			Path:     conf.DBPath,
		})
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		repos = repository.New(db)
		return nil
	},
}

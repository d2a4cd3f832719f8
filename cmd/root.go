package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	cfgFile string
	verbose bool
	Version = "1.3.2"
)

var rootCmd = &cobra.Command{
	Use:   "scrub",
	Short: "Anonymize PII in a CMS database",
	Long: `
scrub rewrites personally identifying information stored in a
WordPress-schema database: user profiles, user metadata and comment
author fields are replaced with realistic synthetic values so a copy of
production data can be used safely in staging environments.

Supported stores:
- MySQL (default)
- PostgreSQL ports of the schema
- SQLite (the drop-in database plugin)`,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("scrub version %s\n", Version)
			os.Exit(0)
		}
		cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./scrub.config.json)")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "Skip confirmations")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log per-record detail")

	rootCmd.Flags().Bool("version", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("scrub.config")
	}

	viper.SetEnvPrefix("SCRUB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			color.Red("❌ Failed to read config: %v", err)
		}
	}
}

func initLogging() {
	logFile := viper.GetString("log.file")
	if logFile == "" {
		logFile = "scrub.log"
	}

	log.SetOutput(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10,
		MaxBackups: 3,
		Compress:   true,
	})
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	level, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}

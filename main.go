package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/muhammadolammi/skillnest/internal/logger"
)

const app = "skillnest"

// Actual version can be specified in build command.
var version = "unknown"

// envBindings maps config keys onto the environment variables that set them.
var envBindings = map[string]string{
	"db-url":                     "DB_URL",
	"rabbitmq-url":               "RABBITMQ_URL",
	"port":                       "PORT",
	"allowed-origin":             "ALLOWED_ORIGIN",
	"career-catalog":             "CAREER_CATALOG",
	"jwt.secret":                 "JWT_SECRET",
	"jwt.ttl":                    "JWT_TTL",
	"redis.addr":                 "REDIS_ADDR",
	"redis.password":             "REDIS_PASSWORD",
	"redis.db":                   "REDIS_DB",
	"redis.ttl":                  "REDIS_TTL",
	"r2.account-id":              "R2_ACCOUNT_ID",
	"r2.bucket":                  "R2_BUCKET",
	"r2.access-key":              "R2_ACCESS_KEY",
	"r2.secret-key":              "R2_SECRET_KEY",
	"r2.public-url":              "R2_PUBLIC_URL",
	"gemini.api-key":             "GOOGLE_API_KEY",
	"gemini.model":               "GEMINI_MODEL",
	"upload.max-mb":              "UPLOAD_MAX_MB",
	"upload.public-url":          "UPLOAD_PUBLIC_URL",
	"rate-limit.per-second":      "RATE_LIMIT_PER_SECOND",
	"rate-limit.burst":           "RATE_LIMIT_BURST",
	"rate-limit.trusted-proxies": "TRUSTED_PROXIES",
	"worker.attempts":            "WORKER_ATTEMPTS",
	"worker.backoff":             "WORKER_BACKOFF",
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillnest serves the learning platform API and its recommendation worker",
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("%s version: %s\n", app, version)
		},
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	setDefaults(viper.GetViper())
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillnest.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	for _, name := range []string{"debug", "json"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			log.Fatalf("binding %s flag: %v", name, err)
		}
	}

	rootCmd.AddCommand(versionCmd)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("allowed-origin", "*")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("redis.ttl", "10m")
	v.SetDefault("gemini.model", "gemini-2.5-pro")
	v.SetDefault("upload.max-mb", 200)
	v.SetDefault("rate-limit.per-second", 1.0)
	v.SetDefault("rate-limit.burst", 5)
	v.SetDefault("worker.attempts", 3)
	v.SetDefault("worker.backoff", "500ms")
}

func initConfig() {
	// a .env file is optional, real environment variables win
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// setup builds the logger and the validated config every command starts from.
func setup(needs int) (*zap.Logger, *Config) {
	lg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	zap.ReplaceGlobals(lg)

	config, err := getConfig()
	if err != nil {
		lg.Fatal("getting a config", zap.Error(err))
	}
	if err := config.Validate(needs); err != nil {
		lg.Fatal("invalid config", zap.Error(err))
	}
	return lg, config
}

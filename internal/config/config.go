package config

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Dataset     DatasetConfig
	Thresholds  ThresholdConfig
	Database    DatabaseConfig
	ObjectStore ObjectStoreConfig
	Cache       CacheConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// DatasetConfig selects where the immutable inventory snapshot is read from.
// Source is one of: sample, file, s3, postgres.
type DatasetConfig struct {
	Source     string
	FilePath   string
	ObjectKey  string
	SampleSize int
}

// ThresholdConfig holds the metric thresholds. Defaults mirror the demo
// dashboard: DOI < 10 is low, DOI > 180 is overstock, expiry window 30 days.
type ThresholdConfig struct {
	LowDOIDays           float64
	OverstockDOIDays     float64
	ExpiryWindowDays     int
	ExpiryHorizonDays    int
	HighCostValue        float64
	LowMovementAnnualQty int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DATASET_SOURCE", "sample")
		viper.SetDefault("DATASET_FILE", "./data/days_of_inventory_200_products.csv")
		viper.SetDefault("DATASET_OBJECT_KEY", "datasets/days_of_inventory.csv")
		viper.SetDefault("DATASET_SAMPLE_SIZE", 200)
		viper.SetDefault("THRESHOLD_LOW_DOI_DAYS", 10.0)
		viper.SetDefault("THRESHOLD_OVERSTOCK_DOI_DAYS", 180.0)
		viper.SetDefault("THRESHOLD_EXPIRY_WINDOW_DAYS", 30)
		viper.SetDefault("THRESHOLD_EXPIRY_HORIZON_DAYS", 90)
		viper.SetDefault("THRESHOLD_HIGH_COST_VALUE", 5000.0)
		viper.SetDefault("THRESHOLD_LOW_MOVEMENT_ANNUAL_QTY", 50)
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "doi_dashboard")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("OBJECT_STORE_ENDPOINT", "")
		viper.SetDefault("OBJECT_STORE_ACCESS_KEY", "")
		viper.SetDefault("OBJECT_STORE_SECRET_KEY", "")
		viper.SetDefault("OBJECT_STORE_BUCKET", "")
		viper.SetDefault("OBJECT_STORE_REGION", "us-east-1")
		viper.SetDefault("OBJECT_STORE_USE_SSL", true)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Dataset: DatasetConfig{
				Source:     viper.GetString("DATASET_SOURCE"),
				FilePath:   viper.GetString("DATASET_FILE"),
				ObjectKey:  viper.GetString("DATASET_OBJECT_KEY"),
				SampleSize: viper.GetInt("DATASET_SAMPLE_SIZE"),
			},
			Thresholds: ThresholdConfig{
				LowDOIDays:           viper.GetFloat64("THRESHOLD_LOW_DOI_DAYS"),
				OverstockDOIDays:     viper.GetFloat64("THRESHOLD_OVERSTOCK_DOI_DAYS"),
				ExpiryWindowDays:     viper.GetInt("THRESHOLD_EXPIRY_WINDOW_DAYS"),
				ExpiryHorizonDays:    viper.GetInt("THRESHOLD_EXPIRY_HORIZON_DAYS"),
				HighCostValue:        viper.GetFloat64("THRESHOLD_HIGH_COST_VALUE"),
				LowMovementAnnualQty: viper.GetInt("THRESHOLD_LOW_MOVEMENT_ANNUAL_QTY"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			ObjectStore: ObjectStoreConfig{
				Endpoint:  viper.GetString("OBJECT_STORE_ENDPOINT"),
				AccessKey: viper.GetString("OBJECT_STORE_ACCESS_KEY"),
				SecretKey: viper.GetString("OBJECT_STORE_SECRET_KEY"),
				Bucket:    viper.GetString("OBJECT_STORE_BUCKET"),
				Region:    viper.GetString("OBJECT_STORE_REGION"),
				UseSSL:    viper.GetBool("OBJECT_STORE_USE_SSL"),
			},
			Cache: CacheConfig{
				Enabled:             viper.GetBool("CACHE_ENABLED"),
				RedisURL:            viper.GetString("REDIS_URL"),
				RedisHost:           viper.GetString("REDIS_HOST"),
				RedisPort:           viper.GetString("REDIS_PORT"),
				RedisPassword:       viper.GetString("REDIS_PASSWORD"),
				RedisDB:             viper.GetInt("REDIS_DB"),
				DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
			},
		}

		if src := instance.Dataset.Source; src == "file" {
			ensureParentDir(instance.Dataset.FilePath)
		}
	})

	return instance
}

func ensureParentDir(path string) {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}

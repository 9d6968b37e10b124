package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// PlannerConfig is the value object handed to the selection entry point.
// It carries every knob the engine needs so there is no process-wide state.
type PlannerConfig struct {
	TopNFruit             int                `mapstructure:"top_n_fruit"`
	TopNVegetable         int                `mapstructure:"top_n_vegetable"`
	MinMargin             float64            `mapstructure:"min_margin"`
	TargetDiscount        float64            `mapstructure:"target_discount"`
	CategoryDiscounts     map[string]float64 `mapstructure:"category_discounts"`
	FatigueWeeksBack      int                `mapstructure:"fatigue_weeks_back"`
	FatigueMaxAppearances int                `mapstructure:"fatigue_max_appearances"`
	CostFallbackRatio     float64            `mapstructure:"cost_fallback_ratio"`
	DoNotDiscountTag      string             `mapstructure:"do_not_discount_tag"`
	HeroTag               string             `mapstructure:"hero_tag"`
	OrderWindowDays       int                `mapstructure:"order_window_days"`
	MaxPricingRetries     int                `mapstructure:"max_pricing_retries"`
}

// DefaultPlannerConfig mirrors the store's historical defaults: top 6 per
// produce category, 20% target discount, 3% margin floor, fatigue after more
// than 2 appearances in 8 weeks, cost estimated at 70% of price when missing.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		TopNFruit:             6,
		TopNVegetable:         6,
		MinMargin:             0.03,
		TargetDiscount:        0.20,
		FatigueWeeksBack:      8,
		FatigueMaxAppearances: 2,
		CostFallbackRatio:     0.70,
		DoNotDiscountTag:      "do_not_discount",
		HeroTag:               "hero",
		OrderWindowDays:       56,
		MaxPricingRetries:     4,
	}
}

type ShopifyConfig struct {
	Store      string `mapstructure:"store"`
	Token      string `mapstructure:"admin_access_token"`
	APIVersion string `mapstructure:"api_version"`
	PageSize   int    `mapstructure:"page_size"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type KafkaConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	BrokerList string `mapstructure:"broker_list"`
	Topic      string `mapstructure:"topic"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type ExportConfig struct {
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputDestination string             `mapstructure:"output_destination"` // "local" or "s3"
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`
}

type Config struct {
	Shopify  ShopifyConfig  `mapstructure:"shopify"`
	Database DatabaseConfig `mapstructure:"database"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Export   ExportConfig   `mapstructure:"export"`
	Planner  PlannerConfig  `mapstructure:"planner"`
	Demo     bool           `mapstructure:"demo"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	defaults := DefaultPlannerConfig()
	viper.SetDefault("planner.top_n_fruit", defaults.TopNFruit)
	viper.SetDefault("planner.top_n_vegetable", defaults.TopNVegetable)
	viper.SetDefault("planner.min_margin", defaults.MinMargin)
	viper.SetDefault("planner.target_discount", defaults.TargetDiscount)
	viper.SetDefault("planner.fatigue_weeks_back", defaults.FatigueWeeksBack)
	viper.SetDefault("planner.fatigue_max_appearances", defaults.FatigueMaxAppearances)
	viper.SetDefault("planner.cost_fallback_ratio", defaults.CostFallbackRatio)
	viper.SetDefault("planner.do_not_discount_tag", defaults.DoNotDiscountTag)
	viper.SetDefault("planner.hero_tag", defaults.HeroTag)
	viper.SetDefault("planner.order_window_days", defaults.OrderWindowDays)
	viper.SetDefault("planner.max_pricing_retries", defaults.MaxPricingRetries)
	viper.SetDefault("shopify.api_version", "2024-10")
	viper.SetDefault("shopify.page_size", 50)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("kafka.topic", "promo_price_updates")
	viper.SetDefault("export.output_path", "output")
	viper.SetDefault("export.output_folder", "promo")
	viper.SetDefault("export.output_destination", "local")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}

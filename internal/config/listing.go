package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ListingConfig bounds page sizes accepted by listing endpoints.
type ListingConfig struct {
	DefaultPageSize int `mapstructure:"defaultPageSize"`
	MaxPageSize     int `mapstructure:"maxPageSize"`
}

func DefaultListingConfig() ListingConfig {
	return ListingConfig{
		DefaultPageSize: 10,
		MaxPageSize:     100,
	}
}

type ListingConfigHolder struct {
	current atomic.Value // holds ListingConfig
}

// NewStaticListingConfigHolder returns a holder that never reloads.
func NewStaticListingConfigHolder(cfg ListingConfig) *ListingConfigHolder {
	holder := &ListingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewListingConfigHolder(appCfg Config, log *zap.Logger) (*ListingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("listing")
	v.SetConfigType("yml")
	if path := strings.TrimSpace(appCfg.ListingConfigPath); path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath("/etc/orderdesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ORDERDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultListingConfig()
	v.SetDefault("listing.defaultPageSize", defaults.DefaultPageSize)
	v.SetDefault("listing.maxPageSize", defaults.MaxPageSize)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var cfg ListingConfig
	if err := v.UnmarshalKey("listing", &cfg); err != nil {
		return nil, err
	}
	if err := validateListingConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticListingConfigHolder(cfg)
	if !fileFound || !appCfg.ListingHotReload {
		return holder, nil
	}

	log = log.Named("config.listing")
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ListingConfig
		if err := v.UnmarshalKey("listing", &updated); err != nil {
			log.Warn("reload failed", zap.Error(err))
			return
		}
		if err := validateListingConfig(updated); err != nil {
			log.Warn("invalid config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *ListingConfigHolder) Get() ListingConfig {
	if h == nil {
		return DefaultListingConfig()
	}
	cfg, ok := h.current.Load().(ListingConfig)
	if !ok {
		return DefaultListingConfig()
	}
	return cfg
}

func validateListingConfig(cfg ListingConfig) error {
	if cfg.DefaultPageSize <= 0 {
		return errors.New("listing.defaultPageSize must be positive")
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		return errors.New("listing.maxPageSize must be >= listing.defaultPageSize")
	}
	return nil
}

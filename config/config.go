package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/TheFungusAmongUs/GeoBot/model"
)

// LoadConfig reads config.yaml (or the file at path when given) into a
// model.Config. Environment variables override file values.
func LoadConfig(path string) (*model.Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 只有绑定过的键才会从环境变量读取
	for _, key := range []string{
		"TOKEN", "GUILD_ID", "APPROVAL_CHANNEL_ID", "CREATE_POST_CHANNEL_ID",
		"IAF_CHANNEL_ID", "BUG_REPORT_CHANNEL_ID",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	v.SetDefault("storage.driver", "json")
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("review.pending_ttl", 5*time.Minute)
	v.SetDefault("review.action_timeout", 30*time.Second)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg model.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

package app

import (
	"github.com/spf13/viper"

	"gitlab.com/silenteer-oss/eatery"
	"gitlab.com/silenteer-oss/eatery/log"
	"gitlab.com/silenteer-oss/eatery/restaurant"
	"gitlab.com/silenteer-oss/eatery/restful"
	"gitlab.com/silenteer-oss/eatery/tracing"
)

const (
	DirectorySeed = "Directory.Seed"
	DirectoryIds  = "Directory.Ids"
)

func init() {
	viper.SetDefault(DirectorySeed, true)
	viper.SetDefault(DirectoryIds, restaurant.IDsSequence)
}

type DirectoryConfig struct {
	Seed bool
	// Ids names the id generator, see restaurant.NewIDGenerator.
	Ids string
}

type Config struct {
	Logging   *log.Config
	Http      *restful.Config
	Nats      *eatery.NatsConfig
	Directory *DirectoryConfig
	Tracing   bool
}

// DefaultConfig serves HTTP on a random port with NATS and tracing off.
func DefaultConfig() *Config {
	return &Config{
		Logging: log.DefaultConfig(),
		Http: &restful.Config{
			Port:        "0",
			CorsOrigins: []string{"*"},
		},
		Nats: &eatery.NatsConfig{
			Servers:     "nats://127.0.0.1:4222",
			Subject:     "api.service.restaurants",
			Queue:       "workers",
			ReadTimeout: 5,
		},
		Directory: &DirectoryConfig{
			Seed: true,
			Ids:  restaurant.IDsSequence,
		},
	}
}

// LoadConfig reads every section from viper.
func LoadConfig() *Config {
	return &Config{
		Logging: eatery.GetLogConfig(),
		Http:    restful.GetConfig(),
		Nats:    eatery.GetNatsConfig(),
		Directory: &DirectoryConfig{
			Seed: viper.GetBool(DirectorySeed),
			Ids:  viper.GetString(DirectoryIds),
		},
		Tracing: tracing.Enabled(),
	}
}

package eatery

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"logur.dev/logur"

	"gitlab.com/silenteer-oss/eatery/log"
)

var hostname string

var natConfigOnce sync.Once
var natConfig *NatsConfig

var logConfigOnce sync.Once
var logConfig *log.Config

var loggerOnce sync.Once
var logger logur.Logger

const (
	NatsEnabled     = "Nats.Enabled"
	NatsServers     = "Nats.Servers"
	NatsSubject     = "Nats.Subject"
	NatsQueue       = "Nats.Queue"
	NatsReadTimeout = "Nats.ReadTimeout"
	LoggingFormat   = "Logging.Format"
	LoggingLevel    = "Logging.Level"
	LoggingNoColor  = "Logging.NoColor"
)

func init() {
	var err error
	hostname, err = os.Hostname()
	if hostname == "" || err != nil {
		hostname = "localhost"
	}

	viper.AutomaticEnv() // read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// logging
	viper.SetDefault(LoggingFormat, "logfmt")
	viper.SetDefault(LoggingLevel, "info")
	viper.SetDefault(LoggingNoColor, false)

	// nats
	viper.SetDefault(NatsEnabled, false)
	viper.SetDefault(NatsServers, "nats://127.0.0.1:4222")
	viper.SetDefault(NatsSubject, "api.service.restaurants")
	viper.SetDefault(NatsQueue, "workers")
	viper.SetDefault(NatsReadTimeout, 5)
}

// ReadConfigFile loads cfgFile, or config.yaml from the working directory
// when cfgFile is empty. A missing default file is not an error.
func ReadConfigFile(cfgFile string) error {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			return fmt.Errorf("file `%s` does not exist", cfgFile)
		}
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return err
	}
	return nil
}

type NatsConfig struct {
	Enabled     bool
	Servers     string
	Subject     string
	Queue       string
	ReadTimeout int // seconds
}

func (c NatsConfig) GetReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// EventSubject is where directory change events are published.
func (c NatsConfig) EventSubject() string {
	return c.Subject + ".events"
}

func GetNatsConfig() *NatsConfig {
	natConfigOnce.Do(func() {
		natConfig = &NatsConfig{
			Enabled:     viper.GetBool(NatsEnabled),
			Servers:     viper.GetString(NatsServers),
			Subject:     viper.GetString(NatsSubject),
			Queue:       viper.GetString(NatsQueue),
			ReadTimeout: viper.GetInt(NatsReadTimeout),
		}
	})
	return natConfig
}

func GetLogConfig() *log.Config {
	logConfigOnce.Do(func() {
		logConfig = &log.Config{
			Format:  viper.GetString(LoggingFormat),
			Level:   viper.GetString(LoggingLevel),
			NoColor: viper.GetBool(LoggingNoColor),
		}
	})
	return logConfig
}

func GetLogger() logur.Logger {
	loggerOnce.Do(func() {
		logger = log.WithFields(log.NewLogger(GetLogConfig()), map[string]interface{}{"hostname": hostname})
	})
	return logger
}

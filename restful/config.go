package restful

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	C_Port        = "Http.Port"
	C_CorsOrigins = "Http.CorsOrigins"
)

func init() {
	viper.SetDefault(C_Port, "8080")
	viper.SetDefault(C_CorsOrigins, "*")
}

type Config struct {
	Port        string
	CorsOrigins []string
}

func GetConfig() *Config {
	var origins []string
	for _, o := range strings.Split(viper.GetString(C_CorsOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return &Config{
		Port:        viper.GetString(C_Port),
		CorsOrigins: origins,
	}
}

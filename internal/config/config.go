package config

import "github.com/spf13/viper"

// Config holds all configuration for the application, read by viper from a
// config file or environment variables.
type Config struct {
	ServerAddress            string `mapstructure:"SERVER_ADDRESS"`
	DBSource                 string `mapstructure:"DB_SOURCE"`
	TownGazetteerURL         string `mapstructure:"TOWN_GAZETTEER_URL"`
	MunicipalityGazetteerURL string `mapstructure:"MUNICIPALITY_GAZETTEER_URL"`
}

// LoadConfig reads configuration from app.env in the given path, with
// environment variables taking precedence over file values.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}

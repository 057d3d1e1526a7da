package config

import (
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Server struct {
	Host           string `envconfig:"WEATHER_SERVER_HOST" default:""`
	Port           string `envconfig:"WEATHER_SERVER_PORT" default:"8082"`
	ReadTimeout    int    `envconfig:"WEATHER_SERVER_TIMEOUT" default:"10"`
	RequestTimeout int    `envconfig:"WEATHER_REQUEST_TIMEOUT" default:"10"`
}

type Tomorrow struct {
	APIKey       string `envconfig:"TOMORROW_API_KEY" required:"true"`
	APIURL       string `envconfig:"TOMORROW_API_URL" default:"https://api.tomorrow.io/v4/weather/realtime"`
	StrictDecode bool   `envconfig:"TOMORROW_STRICT_DECODE" default:"true"`
}

type Breaker struct {
	Enabled      bool   `envconfig:"BREAKER_ENABLED" default:"false"`
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Redis struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	DbType   int    `envconfig:"REDIS_DB_TYPE" default:"0"`
	LiveTime int    `envconfig:"REDIS_LIVE_TIME" default:"10"`
}

type Config struct {
	Tomorrow Tomorrow
	Server   Server
	Breaker  Breaker
	Redis    Redis

	CoalesceRequests bool   `envconfig:"COALESCE_REQUESTS" default:"false"`
	CitiesPath       string `envconfig:"CITIES_PATH" default:""`
	ZipkinURL        string `envconfig:"ZIPKIN_URL" default:""`

	LogsPath     string `envconfig:"LOGS_PATH" default:"./log/weather-lookup.log"`
	HTTPLogsPath string `envconfig:"HTTP_LOGS_PATH" default:"./log/weather-lookup-http.log"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

// RequestTimeout bounds a single lookup, outbound call included.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeout) * time.Second
}

func (r Redis) Address() string {
	return net.JoinHostPort(r.Host, r.Port)
}

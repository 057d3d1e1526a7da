package models

// WeatherQuery is the caller's request. City must be non-empty.
type WeatherQuery struct {
	City string `json:"city" form:"city" binding:"required"`
}

// WeatherResult is produced only from a 200 response whose body decoded strictly.
type WeatherResult struct {
	TemperatureCelsius float64 `json:"temperature_celsius"`
}

// WeatherResponse is the realtime payload of the provider. Every leaf is
// required; pointers let the validator tell a missing field from a zero value.
type WeatherResponse struct {
	Data     *WeatherData  `json:"data" validate:"required"`
	Location *LocationInfo `json:"location" validate:"required"`
}

type WeatherData struct {
	Time   *string      `json:"time" validate:"required"`
	Values *WeatherInfo `json:"values" validate:"required"`
}

type WeatherInfo struct {
	Temperature *float64 `json:"temperature" validate:"required"`
}

type LocationInfo struct {
	Lat  *float64 `json:"lat" validate:"required"`
	Lon  *float64 `json:"lon" validate:"required"`
	Name *string  `json:"name" validate:"required"`
	Type *string  `json:"type" validate:"required"`
}

// Lookup is what the HTTP API returns to its callers.
type Lookup struct {
	City       string  `json:"city"`
	Celsius    float64 `json:"celsius"`
	Fahrenheit float64 `json:"fahrenheit"`
	Display    string  `json:"display"`
}

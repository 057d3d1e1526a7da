// Package presenter turns Celsius readings into what users see.
package presenter

import (
	"strconv"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

// CelsiusToFahrenheit uses floating-point 9/5; integer division would yield 1.
func CelsiusToFahrenheit(c float64) float64 {
	return c*(9.0/5.0) + 32
}

// FormatFahrenheit renders a Fahrenheit value as "<value>°F".
func FormatFahrenheit(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64) + "°F"
}

// FormatCelsius renders a Celsius value as "<value>°C".
func FormatCelsius(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64) + "°C"
}

func NewLookup(city string, res models.WeatherResult) models.Lookup {
	f := CelsiusToFahrenheit(res.TemperatureCelsius)
	return models.Lookup{
		City:       city,
		Celsius:    res.TemperatureCelsius,
		Fahrenheit: f,
		Display:    FormatFahrenheit(f),
	}
}

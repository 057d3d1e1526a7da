package weather

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
	"github.com/Nazarious-ucu/weather-lookup/internal/presenter"
	serviceWeather "github.com/Nazarious-ucu/weather-lookup/internal/services/weather"
)

const defaultTimeout = 10 * time.Second

type weatherGetterService interface {
	GetByCity(ctx context.Context, city string) (models.WeatherResult, error)
}

type citySuggester interface {
	Suggest(prefix string, limit int) []models.City
}

type Handler struct {
	service weatherGetterService
	cities  citySuggester
	timeout time.Duration
}

func NewHandler(svc weatherGetterService, cities citySuggester, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Handler{service: svc, cities: cities, timeout: timeout}
}

// GetWeather
// @Summary Get current temperature
// @Description Returns the current temperature for a city in Celsius and Fahrenheit
// @Tags weather
// @Produce json
// @Param city query string true "City name"
// @Success 200 {object} models.Lookup
// @Failure 400
// @Failure 404
// @Failure 502
// @Failure 504
// @Router /weather [get]
func (h *Handler) GetWeather(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city query parameter is required"})
		return
	}
	ctxWithTimeout, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	data, err := h.service.GetByCity(ctxWithTimeout, city)
	if err != nil {
		status, msg := errorResponse(err)
		c.JSON(status, gin.H{"error": msg, "kind": serviceWeather.ErrorLabel(err)})
		return
	}

	c.JSON(http.StatusOK, presenter.NewLookup(city, data))
}

// GetCities
// @Summary Suggest cities
// @Description Returns bundled city names starting with the given prefix
// @Tags cities
// @Produce json
// @Param prefix query string false "Name prefix"
// @Param limit query int false "Maximum number of results"
// @Success 200 {array} models.City
// @Failure 400
// @Router /cities [get]
func (h *Handler) GetCities(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	c.JSON(http.StatusOK, h.cities.Suggest(c.Query("prefix"), limit))
}

func errorResponse(err error) (int, string) {
	var fe *serviceWeather.FetchError
	var te *serviceWeather.TransportError

	switch {
	case errors.Is(err, serviceWeather.ErrEmptyCity):
		return http.StatusBadRequest, "city query parameter is required"
	case errors.As(err, &fe) && fe.Kind == serviceWeather.InvalidResponse && fe.StatusCode == http.StatusNotFound:
		return http.StatusNotFound, "City not found"
	case errors.Is(err, serviceWeather.ErrInvalidResponse):
		return http.StatusBadGateway, "weather provider rejected the request"
	case errors.Is(err, serviceWeather.ErrInvalidData):
		return http.StatusBadGateway, "weather provider returned malformed data"
	case errors.Is(err, serviceWeather.ErrInvalidURL):
		return http.StatusInternalServerError, "weather provider endpoint is misconfigured"
	case errors.As(err, &te):
		return http.StatusGatewayTimeout, "weather provider unreachable"
	default:
		return http.StatusInternalServerError, "unexpected error"
	}
}

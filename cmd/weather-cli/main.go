package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/weather-lookup/internal/app"
	"github.com/Nazarious-ucu/weather-lookup/internal/cities"
	"github.com/Nazarious-ucu/weather-lookup/internal/config"
	"github.com/Nazarious-ucu/weather-lookup/internal/models"
	"github.com/Nazarious-ucu/weather-lookup/internal/presenter"
	serviceWeather "github.com/Nazarious-ucu/weather-lookup/internal/services/weather"
	"github.com/Nazarious-ucu/weather-lookup/pkg/logger"
)

const (
	exitOK = iota
	exitFetch
	exitUsage
)

const (
	unitFahrenheit = "f"
	unitCelsius    = "c"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("weather-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	units := fs.String("units", unitFahrenheit, "temperature units: f or c")
	suggest := fs.Bool("suggest", false, "list bundled cities starting with the argument")
	verbose := fs.Bool("v", false, "verbose logging to stderr")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	celsius, err := parseUnits(*units)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	city := strings.Join(fs.Args(), " ")
	l := logger.NewCLILogger("weather-cli", *verbose)

	if *suggest {
		return printSuggestions(city, stdout, stderr)
	}

	if city == "" {
		fmt.Fprintln(stderr, "usage: weather-cli [-units f|c] [-v] <city>")
		return exitUsage
	}

	if err := godotenv.Load(); err != nil {
		l.Debug().Err(err).Msg("no .env file found")
	}
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(stderr, "configuration: %v\n", err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fileLogger, err := logger.NewFileLogger(cfg.HTTPLogsPath)
	if err != nil {
		l.Warn().Err(err).Msg("outbound calls will not be logged")
		fileLogger = zap.NewNop()
	}
	defer func() { _ = fileLogger.Sync() }()

	client := app.NewHTTPClient(fileLogger, cfg.RequestTimeout())
	svc := app.BuildWeatherService(*cfg, client, l, nil)
	return lookup(ctx, svc, city, celsius, stdout, stderr, l)
}

func parseUnits(units string) (celsius bool, err error) {
	switch strings.ToLower(units) {
	case unitFahrenheit:
		return false, nil
	case unitCelsius:
		return true, nil
	default:
		return false, fmt.Errorf("unknown units %q, want f or c", units)
	}
}

type asyncFetcher interface {
	FetchAsync(ctx context.Context, query models.WeatherQuery) <-chan serviceWeather.Outcome
}

func lookup(
	ctx context.Context,
	svc asyncFetcher,
	city string,
	celsius bool,
	stdout, stderr io.Writer,
	l zerolog.Logger,
) int {
	var sink presenter.Sink

	outcome := <-svc.FetchAsync(ctx, models.WeatherQuery{City: city})
	sink.Apply(presenter.NewLookup(outcome.City, outcome.Result), outcome.Err)

	shown, err := sink.Current()
	if err != nil {
		l.Debug().Err(err).Str("kind", serviceWeather.ErrorLabel(err)).Msg("lookup failed")
		fmt.Fprintln(stderr, describe(err))
		if errors.Is(err, serviceWeather.ErrEmptyCity) {
			return exitUsage
		}
		return exitFetch
	}

	if celsius {
		fmt.Fprintln(stdout, presenter.FormatCelsius(shown.Celsius))
		return exitOK
	}
	fmt.Fprintln(stdout, shown.Display)
	return exitOK
}

func describe(err error) string {
	switch {
	case errors.Is(err, serviceWeather.ErrEmptyCity):
		return "city must not be empty"
	case errors.Is(err, serviceWeather.ErrInvalidURL):
		return "invalid url"
	case errors.Is(err, serviceWeather.ErrInvalidResponse):
		return "invalid response"
	case errors.Is(err, serviceWeather.ErrInvalidData):
		return "invalid data"
	default:
		return "unexpected error: " + err.Error()
	}
}

func printSuggestions(prefix string, stdout, stderr io.Writer) int {
	catalog, err := cities.Load(os.Getenv("CITIES_PATH"))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFetch
	}
	for _, c := range catalog.Suggest(prefix, 0) {
		fmt.Fprintln(stdout, c.Name)
	}
	return exitOK
}

//go:build integration

package integration

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/app"
	"github.com/Nazarious-ucu/weather-lookup/internal/config"
	metricsSvc "github.com/Nazarious-ucu/weather-lookup/internal/services/metrics"
)

const testAPIKey = "secret-key-tomorrow"

var (
	testServerURL string
	upstreamCalls = make(chan string, 100)
)

func TestMain(m *testing.M) {
	log.Println("Starting integration tests for weather lookup..")

	provider := newTestTomorrowServer()

	cfg := config.Config{
		Tomorrow: config.Tomorrow{
			APIKey:       testAPIKey,
			APIURL:       provider.URL + "/v4/weather/realtime",
			StrictDecode: true,
		},
		Server: config.Server{
			Host:           "127.0.0.1",
			ReadTimeout:    10,
			RequestTimeout: 5,
		},
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Panicf("failed to listen: %v", err)
	}
	testServerURL = "http://" + ln.Addr().String()

	application := app.New(cfg, zerolog.Nop(), metricsSvc.NewMetrics("weather_lookup_it"))
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if err := application.Start(ctx, ln); err != nil {
			log.Printf("application stopped with error: %v", err)
		}
	}()

	if err := waitHealthy(testServerURL + "/healthz"); err != nil {
		log.Panic(err)
	}

	code := m.Run()
	cancel()
	<-stopped
	provider.Close()
	os.Exit(code)
}

func waitHealthy(url string) error {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	return fmt.Errorf("server at %s did not become healthy", url)
}

func newTestTomorrowServer() *httptest.Server {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		city := q.Get("location")
		upstreamCalls <- city

		if q.Get("apikey") != testAPIKey || r.Header.Get("Authorization") != "Bearer "+testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401001,"type":"Invalid Auth"}`))
			return
		}
		if q.Get("units") != "metric" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch city {
		case "Boston":
			_, _ = w.Write([]byte(`{"data":{"time":"2024-01-01T00:00:00Z","values":{"temperature":21.5}},` +
				`"location":{"lat":42.3,"lon":-71.0,"name":"Boston","type":"city"}}`))
		case "Garbled":
			_, _ = w.Write([]byte(`{"unexpected":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":400001,"type":"Invalid Query Parameters"}`))
		}
	})
	return httptest.NewServer(handler)
}

//go:build unit

package weather_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/weather"
)

const (
	testAPIKey = "1234567890"

	bostonBody = `{"data":{"time":"2024-01-01T00:00:00Z","values":{"temperature":21.5}},` +
		`"location":{"lat":42.3,"lon":-71.0,"name":"Boston","type":"city"}}`
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, ok := args.Get(0).(*http.Response)
	if !ok {
		return nil, args.Error(1)
	}
	return resp, args.Error(1)
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newClient(m *mockHTTPClient, opts ...weather.Option) *weather.ClientTomorrow {
	return weather.NewClientTomorrow(testAPIKey, weather.DefaultTomorrowURL, m, zerolog.Nop(), opts...)
}

func TestFetchTemperature_ScenarioA_Success(t *testing.T) {
	m := &mockHTTPClient{}
	m.On("Do", mock.Anything).Return(response(http.StatusOK, bostonBody), nil).Once()
	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	data, err := newClient(m).FetchTemperature(context.Background(), "Boston")

	require.NoError(t, err)
	assert.Equal(t, models.WeatherResult{TemperatureCelsius: 21.5}, data)
}

func TestFetchTemperature_ReturnsTemperatureUnmodified(t *testing.T) {
	testCases := []struct {
		name string
		temp string
		want float64
	}{
		{name: "zero", temp: "0", want: 0},
		{name: "negative", temp: "-12.25", want: -12.25},
		{name: "integer literal", temp: "30", want: 30},
		{name: "many digits", temp: "18.123456789", want: 18.123456789},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body := `{"data":{"time":"t","values":{"temperature":` + tc.temp + `}},` +
				`"location":{"lat":1,"lon":2,"name":"X","type":"city"}}`
			m := &mockHTTPClient{}
			m.On("Do", mock.Anything).Return(response(http.StatusOK, body), nil).Once()

			data, err := newClient(m).FetchTemperature(context.Background(), "X")

			require.NoError(t, err)
			assert.Equal(t, tc.want, data.TemperatureCelsius)
			m.AssertExpectations(t)
		})
	}
}

func TestFetchTemperature_BuildsRequest(t *testing.T) {
	m := &mockHTTPClient{}
	m.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		q := req.URL.Query()
		return req.Method == http.MethodGet &&
			req.URL.Scheme == "https" &&
			req.URL.Host == "api.tomorrow.io" &&
			req.URL.Path == "/v4/weather/realtime" &&
			q.Get("location") == "São Paulo & co" &&
			q.Get("apikey") == testAPIKey &&
			q.Get("units") == "metric" &&
			req.Header.Get("Authorization") == "Bearer "+testAPIKey
	})).Return(response(http.StatusOK, bostonBody), nil).Once()
	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	_, err := newClient(m).FetchTemperature(context.Background(), "São Paulo & co")
	require.NoError(t, err)
}

func TestFetchTemperature_NonOKStatus(t *testing.T) {
	for _, status := range []int{
		http.StatusUnauthorized,
		http.StatusNotFound,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusNoContent,
	} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			m := &mockHTTPClient{}
			// A perfectly valid body must not rescue a non-200 status.
			m.On("Do", mock.Anything).Return(response(status, bostonBody), nil).Once()

			data, err := newClient(m).FetchTemperature(context.Background(), "Nowhere")

			require.Error(t, err)
			assert.ErrorIs(t, err, weather.ErrInvalidResponse)
			assert.Equal(t, models.WeatherResult{}, data)

			var fe *weather.FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, status, fe.StatusCode)
			m.AssertExpectations(t)
		})
	}
}

func TestFetchTemperature_ScenarioB_NotFound(t *testing.T) {
	m := &mockHTTPClient{}
	m.On("Do", mock.Anything).Return(response(http.StatusNotFound, `{"code":400001}`), nil).Once()
	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	_, err := newClient(m).FetchTemperature(context.Background(), "Nowhere")

	kind, ok := weather.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, weather.InvalidResponse, kind)
}

func TestFetchTemperature_InvalidData(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "scenario C unexpected shape", body: `{"unexpected":true}`},
		{name: "malformed json", body: `{"data":`},
		{name: "empty body", body: ``},
		{name: "null", body: `null`},
		{name: "missing temperature", body: `{"data":{"time":"t","values":{}},` +
			`"location":{"lat":1,"lon":2,"name":"X","type":"city"}}`},
		{name: "missing location", body: `{"data":{"time":"t","values":{"temperature":1}}}`},
		{name: "missing location name", body: `{"data":{"time":"t","values":{"temperature":1}},` +
			`"location":{"lat":1,"lon":2,"type":"city"}}`},
		{name: "temperature is a string", body: `{"data":{"time":"t","values":{"temperature":"hot"}},` +
			`"location":{"lat":1,"lon":2,"name":"X","type":"city"}}`},
		{name: "unknown field", body: `{"data":{"time":"t","values":{"temperature":1,"humidity":40}},` +
			`"location":{"lat":1,"lon":2,"name":"X","type":"city"}}`},
		{name: "trailing data", body: bostonBody + `{}`},
		{name: "mis-cased keys", body: `{"DATA":{"Time":"t","VALUES":{"TEMPERATURE":21.5}},` +
			`"Location":{"LAT":1,"LON":2,"NAME":"X","TYPE":"city"}}`},
		{name: "one mis-cased leaf", body: `{"data":{"time":"t","values":{"Temperature":21.5}},` +
			`"location":{"lat":1,"lon":2,"name":"X","type":"city"}}`},
		{name: "duplicate key", body: `{"data":{"time":"t","values":{"temperature":"x","temperature":21.5}},` +
			`"location":{"lat":1,"lon":2,"name":"X","type":"city"}}`},
		{name: "duplicate valid key", body: `{"data":{"time":"t","values":{"temperature":1,"temperature":21.5}},` +
			`"location":{"lat":1,"lon":2,"name":"X","type":"city"}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := &mockHTTPClient{}
			m.On("Do", mock.Anything).Return(response(http.StatusOK, tc.body), nil).Once()

			data, err := newClient(m).FetchTemperature(context.Background(), "Boston")

			require.Error(t, err)
			assert.ErrorIs(t, err, weather.ErrInvalidData)
			assert.NotErrorIs(t, err, weather.ErrInvalidResponse)
			assert.Equal(t, models.WeatherResult{}, data)
			m.AssertExpectations(t)
		})
	}
}

func TestFetchTemperature_UnknownFieldsAllowed(t *testing.T) {
	body := `{"data":{"time":"t","values":{"temperature":4.5,"humidity":40}},` +
		`"location":{"lat":1,"lon":2,"name":"X","type":"city"}}`
	m := &mockHTTPClient{}
	m.On("Do", mock.Anything).Return(response(http.StatusOK, body), nil).Once()

	data, err := newClient(m, weather.WithUnknownFieldsAllowed()).FetchTemperature(context.Background(), "X")

	require.NoError(t, err)
	assert.Equal(t, 4.5, data.TemperatureCelsius)
}

func TestFetchTemperature_LenientStillCaseSensitive(t *testing.T) {
	for name, body := range map[string]string{
		"mis-cased keys": `{"data":{"time":"t","values":{"TEMPERATURE":4.5}},` +
			`"location":{"lat":1,"lon":2,"name":"X","type":"city"}}`,
		"duplicate key": `{"data":{"time":"t","values":{"temperature":1,"temperature":4.5}},` +
			`"location":{"lat":1,"lon":2,"name":"X","type":"city"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			m := &mockHTTPClient{}
			m.On("Do", mock.Anything).Return(response(http.StatusOK, body), nil).Once()

			_, err := newClient(m, weather.WithUnknownFieldsAllowed()).FetchTemperature(context.Background(), "X")

			assert.ErrorIs(t, err, weather.ErrInvalidData)
		})
	}
}

func TestFetchTemperature_InvalidURL_NoNetworkCall(t *testing.T) {
	for _, endpoint := range []string{
		"://api.tomorrow.io",
		"not a url",
		"/v4/weather/realtime",
		"http://[::1",
	} {
		t.Run(endpoint, func(t *testing.T) {
			m := &mockHTTPClient{}
			cl := weather.NewClientTomorrow(testAPIKey, endpoint, m, zerolog.Nop())

			data, err := cl.FetchTemperature(context.Background(), "Boston")

			require.Error(t, err)
			assert.ErrorIs(t, err, weather.ErrInvalidURL)
			assert.Equal(t, models.WeatherResult{}, data)
			m.AssertNotCalled(t, "Do", mock.Anything)
		})
	}
}

func TestFetchTemperature_TransportErrorIsUnclassified(t *testing.T) {
	m := &mockHTTPClient{}
	m.On("Do", mock.Anything).Return(nil, &url.Error{
		Op:  "Get",
		URL: weather.DefaultTomorrowURL + "?apikey=" + testAPIKey + "&location=Boston",
		Err: errors.New("connection refused"),
	}).Once()

	_, err := newClient(m).FetchTemperature(context.Background(), "Boston")

	require.Error(t, err)
	var te *weather.TransportError
	require.ErrorAs(t, err, &te)
	_, classified := weather.KindOf(err)
	assert.False(t, classified)
	assert.NotErrorIs(t, err, weather.ErrInvalidURL)
	assert.NotErrorIs(t, err, weather.ErrInvalidResponse)
	assert.NotErrorIs(t, err, weather.ErrInvalidData)
	assert.NotContains(t, err.Error(), testAPIKey)
}

func TestFetchTemperature_NilResponse(t *testing.T) {
	m := &mockHTTPClient{}
	m.On("Do", mock.Anything).Return(nil, nil).Once()

	_, err := newClient(m).FetchTemperature(context.Background(), "Boston")

	assert.ErrorIs(t, err, weather.ErrInvalidResponse)
}

func TestFetchTemperature_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &mockHTTPClient{}
	m.On("Do", mock.Anything).Return(nil, context.Canceled).Once()

	_, err := newClient(m).FetchTemperature(ctx, "Boston")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "transport", weather.ErrorLabel(err))
}

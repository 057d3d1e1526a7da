package weather

import (
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

var (
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Field names must match exactly; encoding/json would fold case.
	strictJSON = jsoniter.Config{CaseSensitive: true, DisallowUnknownFields: true}.Froze()
	looseJSON  = jsoniter.Config{CaseSensitive: true}.Froze()
)

// decodeResponse decodes body into the provider payload and checks that every
// required leaf is present. Trailing data after the object and repeated keys
// are rejected.
func decodeResponse(body []byte, disallowUnknown bool) (models.WeatherResponse, error) {
	api := looseJSON
	if disallowUnknown {
		api = strictJSON
	}

	var raw models.WeatherResponse
	if err := api.Unmarshal(body, &raw); err != nil {
		return models.WeatherResponse{}, err
	}
	if err := checkDuplicateKeys(api, body); err != nil {
		return models.WeatherResponse{}, err
	}

	if err := validate.Struct(raw); err != nil {
		return models.WeatherResponse{}, err
	}
	return raw, nil
}

func checkDuplicateKeys(api jsoniter.API, body []byte) error {
	iter := api.BorrowIterator(body)
	defer api.ReturnIterator(iter)

	walkValue(iter)
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return iter.Error
	}
	return nil
}

func walkValue(iter *jsoniter.Iterator) {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		seen := make(map[string]struct{})
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			if _, dup := seen[key]; dup {
				it.ReportError("decode", "duplicate key "+key)
				return false
			}
			seen[key] = struct{}{}
			walkValue(it)
			return it.Error == nil
		})
	case jsoniter.ArrayValue:
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			walkValue(it)
			return it.Error == nil
		})
	default:
		iter.Skip()
	}
}

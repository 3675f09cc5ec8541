package config

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/smykla-skalski/codeaudit/pkg/config"
)

// CustomDecoderConfig returns a mapstructure decoder config with custom type hooks
// for handling byte sizes, text unmarshalers and comma-separated lists.
func CustomDecoderConfig() *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToByteSizeHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           nil, // Set by caller
	}
}

// stringToByteSizeHookFunc returns a decode hook for converting strings and
// numbers to config.ByteSize.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func stringToByteSizeHookFunc() mapstructure.DecodeHookFunc {
	return func(
		_ reflect.Type,
		t reflect.Type,
		data any,
	) (any, error) {
		if t != reflect.TypeFor[config.ByteSize]() {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return config.ParseByteSize(v)

		case int:
			return config.ByteSize(v), nil

		case int64:
			return config.ByteSize(v), nil

		case float64:
			return config.ByteSize(v), nil

		default:
			return data, nil
		}
	}
}

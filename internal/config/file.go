package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var fileFormats = map[string]string{
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
}

// secretKeys are never taken from a config file.
var secretKeys = []string{"api_key", "farm_api_key", "subscription_key"}

type fileSettings struct {
	BaseURL        *string        `mapstructure:"base_url"`
	APIVersion     *string        `mapstructure:"api_version"`
	DeploymentName *string        `mapstructure:"deployment_name"`
	DefaultModel   *string        `mapstructure:"default_model"`
	Timeout        *time.Duration `mapstructure:"timeout"`
	MaxRetries     *int           `mapstructure:"max_retries"`
}

// LoadFile reads non-secret settings from a YAML or JSON file. The format is
// chosen by extension. Settings may be nested under SectionKey or sit at the
// top level of the document.
func LoadFile(path string) (Values, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := fileFormats[ext]
	if !ok {
		return Values{}, &FormatError{Path: path, Err: fmt.Errorf("unsupported config file extension %q", ext)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Values{}, &ValidationError{Field: "config", Msg: "read config file", Err: err}
	}

	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return Values{}, &FormatError{Path: path, Err: err}
	}

	settings := v.AllSettings()
	if raw, ok := settings[SectionKey]; ok {
		section, ok := raw.(map[string]any)
		if !ok {
			return Values{}, &FormatError{Path: path, Err: fmt.Errorf("%s must be a mapping, got %T", SectionKey, raw)}
		}
		settings = section
	}

	for _, key := range secretKeys {
		if _, ok := settings[key]; ok {
			log.Warn().Str("path", path).Str("key", key).Msg("ignoring secret in config file, set it via the environment instead")
			delete(settings, key)
		}
	}

	if err := ValidateSettings(settings); err != nil {
		return Values{}, &ValidationError{Field: "config", Msg: "invalid settings in " + path, Err: err}
	}

	var fs fileSettings
	if err := decodeSettings(settings, &fs); err != nil {
		return Values{}, &ValidationError{Field: "config", Msg: "decode settings in " + path, Err: err}
	}

	log.Debug().Str("path", path).Str("format", format).Msg("loaded config file")

	return Values{
		BaseURL:        fs.BaseURL,
		APIVersion:     fs.APIVersion,
		DeploymentName: fs.DeploymentName,
		DefaultModel:   fs.DefaultModel,
		Timeout:        fs.Timeout,
		MaxRetries:     fs.MaxRetries,
	}, nil
}

func decodeSettings(settings map[string]any, out *fileSettings) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(timeoutHook),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	return dec.Decode(settings)
}

var durationType = reflect.TypeOf(time.Duration(0))

// timeoutHook reads plain numbers as seconds and strings through ParseTimeout.
func timeoutHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.String:
		return ParseTimeout(data.(string))
	case reflect.Float32, reflect.Float64:
		return time.Duration(reflect.ValueOf(data).Float() * float64(time.Second)), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Duration(reflect.ValueOf(data).Int()) * time.Second, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return time.Duration(reflect.ValueOf(data).Uint()) * time.Second, nil
	default:
		return data, nil
	}
}

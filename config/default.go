// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/mafilu-cli/mafilu/color"
	"github.com/mafilu-cli/mafilu/constant"
	"github.com/mafilu-cli/mafilu/key"
	"github.com/mafilu-cli/mafilu/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Mafilu + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON includes the current value next to the default.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case float64:
		return "float"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.Player, "mpv", "Media engine used to render video.\nOnly mpv exposes the IPC needed for playback control")
	register(key.PlayerNativeHLS, false, "Let the engine open HLS manifests itself.\nDisables manual quality selection")
	register(key.PlayerAutoplay, true, "Start playback as soon as metadata is available")
	register(key.PlayerVolume, 100, "Initial volume in percent (0-100)")
	register(key.StreamABRInitialBandwidth, 1_000_000, "Bandwidth estimate in bits per second used before the first segment is measured")
	register(key.StreamABRSafetyFactor, 80, "Percentage of the measured bandwidth a rendition may use when switching automatically")
	register(key.StreamFragmentRetries, 3, "Attempts per manifest or segment request before a network error is reported")
	register(key.StreamNetworkRetryInterval, 1000, "Minimum milliseconds between reloads after a network error")
	register(key.ResumeEnable, true, "Remember and restore playback positions")
	register(key.ResumeBackend, "file", "Where playback positions are stored.\nAvailable options are: file, redis, memory")
	register(key.ResumeRedisAddr, "localhost:6379", "Redis address used when resume.backend is redis.\nThe password is read from the system keyring (mafilu redis)")
	register(key.ResumeRedisDB, 0, "Redis database number used when resume.backend is redis")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, nerd, plain, squares")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Check for a newer release when showing help or the version")
	register(key.MetricsAddr, "", "Serve prometheus metrics on this address (e.g. 127.0.0.1:9464).\nEmpty disables the endpoint")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"blue":     style.Fg(color.Blue),
	"purple":   style.Fg(color.Purple),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))

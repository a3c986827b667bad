package config

import (
	"fmt"

	"github.com/mafilu-cli/mafilu/icon"
	"github.com/mafilu-cli/mafilu/key"
	"github.com/samber/lo"
)

type intRange struct{ min, max int }

var intRanges = map[string]intRange{
	key.PlayerVolume:               {0, 100},
	key.StreamABRSafetyFactor:      {1, 100},
	key.StreamFragmentRetries:      {1, 20},
	key.StreamNetworkRetryInterval: {0, 60_000},
	key.StreamABRInitialBandwidth:  {1, 1 << 30},
	key.ResumeRedisDB:              {0, 15},
}

var choices = map[string][]string{
	key.ResumeBackend: {"file", "redis", "memory"},
	key.LogsLevel:     {"panic", "fatal", "error", "warn", "info", "debug", "trace"},
	key.IconsVariant:  icon.AvailableVariants(),
}

// Validate reports whether value is acceptable for the key.
func Validate(name string, value any) error {
	switch v := value.(type) {
	case int:
		if r, ok := intRanges[name]; ok && (v < r.min || v > r.max) {
			return fmt.Errorf("%s must be between %d and %d, got %d", name, r.min, r.max, v)
		}
	case string:
		if options, ok := choices[name]; ok && !lo.Contains(options, v) {
			return fmt.Errorf("%s must be one of %v, got %q", name, options, v)
		}
	}
	return nil
}

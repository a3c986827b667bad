package resume

import (
	"fmt"

	"github.com/mafilu-cli/mafilu/auth"
	"github.com/mafilu-cli/mafilu/key"
	"github.com/mafilu-cli/mafilu/where"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// FromConfig builds the storage selected by resume.backend.
func FromConfig() (Storage, error) {
	switch backend := viper.GetString(key.ResumeBackend); backend {
	case BackendFile:
		return NewFile(where.Resume()), nil
	case BackendMemory:
		return NewMemory(), nil
	case BackendRedis:
		password, err := auth.RedisPassword()
		if err != nil {
			return nil, fmt.Errorf("read redis password: %w", err)
		}
		return NewRedis(redis.NewClient(&redis.Options{
			Addr:     viper.GetString(key.ResumeRedisAddr),
			Password: password,
			DB:       viper.GetInt(key.ResumeRedisDB),
		})), nil
	default:
		return nil, fmt.Errorf("unknown resume backend %q", backend)
	}
}

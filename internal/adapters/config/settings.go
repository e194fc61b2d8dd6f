// Package config loads the user settings of parcel from .parcel.yaml and PARCEL_* variables.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	configBaseName = ".parcel"
	configType     = "yaml"
	envPrefix      = "PARCEL"

	homeKey            = "home"
	registryURLKey     = "registry.url"
	registryTTLKey     = "registry.ttl"
	registryOfflineKey = "registry.offline"
	buildCommandKey    = "build.command"

	logFileKey       = "log.file"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	// DefaultRegistryURL is the index URL of the public registry.
	DefaultRegistryURL = "https://index.parcel.dev"

	defaultRegistryTTL   = "10m"
	defaultLogLevel      = "debug"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// Load reads the settings visible from dir. The settings file is optional.
func Load(dir string) (*domain.Settings, error) {
	v := viper.New()
	v.SetConfigName(configBaseName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault(homeKey, domain.DefaultHomePath())
	v.SetDefault(registryURLKey, DefaultRegistryURL)
	v.SetDefault(registryTTLKey, defaultRegistryTTL)
	v.SetDefault(registryOfflineKey, false)
	v.SetDefault(buildCommandKey, []string{})

	v.SetDefault(logFileKey, "")
	v.SetDefault(logLevelKey, defaultLogLevel)
	v.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(logCompressKey, defaultLogCompress)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "dir", dir)
		}
	}

	ttl, err := time.ParseDuration(v.GetString(registryTTLKey))
	if err != nil || ttl < 0 {
		if err == nil {
			err = errors.New("negative duration")
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "key", registryTTLKey)
	}

	registryURL := strings.TrimSuffix(strings.TrimSpace(v.GetString(registryURLKey)), "/")
	if registryURL == "" {
		return nil, zerr.With(domain.ErrConfigParseFailed, "key", registryURLKey)
	}

	home := v.GetString(homeKey)
	logFile := v.GetString(logFileKey)
	if logFile == "" {
		logFile = domain.DebugLogPath(home)
	}

	return &domain.Settings{
		Home:         home,
		RegistryURL:  registryURL,
		RegistryTTL:  ttl,
		Offline:      v.GetBool(registryOfflineKey),
		BuildCommand: v.GetStringSlice(buildCommandKey),
		Log: domain.LogSettings{
			File:       logFile,
			Level:      v.GetString(logLevelKey),
			MaxSize:    v.GetInt(logMaxSizeKey),
			MaxBackups: v.GetInt(logMaxBackupsKey),
			MaxAge:     v.GetInt(logMaxAgeKey),
			Compress:   v.GetBool(logCompressKey),
		},
	}, nil
}

package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/ndisdirectory/internal/flagx"
	"github.com/dmitrijs2005/ndisdirectory/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell a missing key apart from a zero value.
type JsonConfig struct {
	StorageDriver       *string         `json:"storage_driver"`
	StorageDSN          *string         `json:"storage_dsn"`
	RemoteBaseURL       *string         `json:"remote_base_url"`
	RemoteTimeout       *timex.Duration `json:"remote_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	PasswordScheme      *string         `json:"password_scheme"`
	ServiceCodec        *string         `json:"service_codec"`
	SessionTTL          *timex.Duration `json:"session_ttl"`
	FavoritesPerUser    *bool           `json:"favorites_per_user"`
	SeedSampleData      *bool           `json:"seed_sample_data"`
	LogLevel            *string         `json:"log_level"`
	LogFormat           *string         `json:"log_format"`
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without such a flag it does nothing. Read and unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.StorageDriver, jc.StorageDriver)
	setString(&cfg.StorageDSN, jc.StorageDSN)
	setString(&cfg.RemoteBaseURL, jc.RemoteBaseURL)
	setDuration(&cfg.RemoteTimeout, jc.RemoteTimeout)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setString(&cfg.PasswordScheme, jc.PasswordScheme)
	setString(&cfg.ServiceCodec, jc.ServiceCodec)
	setDuration(&cfg.SessionTTL, jc.SessionTTL)
	setBool(&cfg.FavoritesPerUser, jc.FavoritesPerUser)
	setBool(&cfg.SeedSampleData, jc.SeedSampleData)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
}

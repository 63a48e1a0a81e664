package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// envKeys are the settings that may be overridden with SEEDRUN_* variables.
var envKeys = []string{"threads", "start_seed", "end_seed"}

// NewViper returns a viper instance bound to the SEEDRUN_* environment
// variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SEEDRUN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// ApplyEnv overrides the seed range and thread count with any values set
// in v.
func (c *Config) ApplyEnv(v *viper.Viper) error {
	if v.IsSet("threads") {
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString("threads")))
		if err != nil || n < 0 {
			return fmt.Errorf("SEEDRUN_THREADS: invalid thread count %q", v.GetString("threads"))
		}
		c.Test.Threads = n
	}
	for key, dst := range map[string]*uint64{
		"start_seed": &c.Test.StartSeed,
		"end_seed":   &c.Test.EndSeed,
	} {
		if !v.IsSet(key) {
			continue
		}
		n, err := strconv.ParseUint(strings.TrimSpace(v.GetString(key)), 10, 64)
		if err != nil {
			return fmt.Errorf("SEEDRUN_%s: %w", strings.ToUpper(key), err)
		}
		*dst = n
	}
	return nil
}

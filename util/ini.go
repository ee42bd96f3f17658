package util

import (
	"os"

	"gopkg.in/ini.v1"
)

// Ini loads a flat ini file into a map. A missing file is not an error,
// the configuration is optional.
func Ini(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg.Section("").KeysHash(), nil
}

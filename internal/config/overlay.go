// config/overlay.go
package config

import (
	"errors"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// OverlayFile merges the YAML file at path over cfg. Keys absent from the
// file keep their current values.
func OverlayFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// Missing overlay should not kill startup
		log.Printf("[config] overlay %s not found, using defaults", path)
		return nil
	}
	if err != nil {
		return err
	}

	return yaml.Unmarshal(b, cfg)
}

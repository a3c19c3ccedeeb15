package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// sampleConfig is written by InitConfig. It documents every option.
const sampleConfig = `# recursive-nfs configuration

# Dataset name prefixes that get an NFS share. Matching is a plain string
# prefix: "tank/media" also selects "tank/media2".
shares:
  - tank/media

# Directory the datasets are mounted under on the appliance.
mount_prefix: /mnt/

share_options:
  # Applied to every generated share.
  default:
    comment: ""
    aliases: []
    hosts: []
    networks: []
    security: []
    ro: false
    enabled: true
    maproot_user: root
    maproot_group: wheel
    mapall_user: null
    mapall_group: null
  # Per dataset overrides, keyed by exact dataset name. Missing keys fall back
  # to the defaults above.
  custom:
    tank/media/archive:
      ro: true

appliance_api:
  host: https://truenas.local
  path: /api/v2.0
  # Prefer RECURSIVE_NFS_APPLIANCE_API_KEY or a .env file over storing the key here.
  key: ""
  timeout: 30s

logging:
  level: INFO
  format: text
  output: stderr

telemetry:
  enabled: false
  endpoint: localhost:4317
  insecure: true
  sample_rate: 1.0

metrics:
  # node_exporter textfile collector target; empty disables metrics.
  textfile: ""
`

// InitConfig writes the sample configuration to the default location and
// returns its path. An existing file is kept unless force is set.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	return path, InitConfigToPath(path, force)
}

// InitConfigToPath writes the sample configuration to path.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

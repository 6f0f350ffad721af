// ABOUTME: YAML backup format for travel plans
// ABOUTME: Wraps the canonical plan document with version and tool metadata

package codec

import (
	"fmt"
	"time"

	"github.com/harper/itinerary/internal/models"
	"gopkg.in/yaml.v3"
)

// BackupVersion is the current backup format version.
const BackupVersion = "1.0"

// BackupTool identifies backups written by this program.
const BackupTool = "itinerary"

// Backup is the YAML backup envelope.
type Backup struct {
	Version    string    `yaml:"version"`
	ExportedAt time.Time `yaml:"exported_at"`
	Tool       string    `yaml:"tool"`
	Plan       planDoc   `yaml:"plan"`
}

// EncodeYAML writes a backup of the plan.
func EncodeYAML(plan *models.TravelPlan) ([]byte, error) {
	backup := Backup{
		Version:    BackupVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       BackupTool,
		Plan:       toDoc(plan),
	}
	data, err := yaml.Marshal(backup)
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return data, nil
}

// DecodeYAML reads a backup written by EncodeYAML. The embedded plan goes
// through the same validation as a JSON import.
func DecodeYAML(data []byte) (*models.TravelPlan, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty backup", ErrParse)
	}

	version, _ := raw["version"].(string)
	if version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version: %q (expected %s)", version, BackupVersion)
	}
	tool, _ := raw["tool"].(string)
	if tool != BackupTool {
		return nil, fmt.Errorf("wrong tool: %q (expected %s)", tool, BackupTool)
	}

	return FromRaw(raw["plan"])
}

package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int                       `toml:"version"`
	Resources map[string]resourceSchema `toml:"resources"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.Resources == nil {
		s.Resources = map[string]resourceSchema{}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported state schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type resourceSchema struct {
	Base         int64  `toml:"base"`
	Last         int64  `toml:"last"`
	NextOverride *int64 `toml:"next_override,omitempty"`
}

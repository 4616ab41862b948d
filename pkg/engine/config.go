// pkg/engine/config.go
package engine

import (
	"os"

	"gopkg.in/yaml.v3"

	"minidb/pkg/schema"
)

// Config is the engine's on-disk configuration surface (SPEC_FULL.md §6):
// logging verbosity plus the structural defaults CREATE INDEX and the
// planner fall back to when a statement doesn't pin them down itself.
type Config struct {
	LogLevel         string `yaml:"log_level"`
	DefaultIndexKind string `yaml:"default_index_kind"`
	BTreeOrder       int    `yaml:"btree_order"`
	HashBucketCount  int    `yaml:"hash_bucket_count"`
}

// DefaultConfig matches spec.md §6's stated defaults: HASH indexes unless
// a statement says BTREE, order-4 B-trees, and a 127-bucket hash table.
func DefaultConfig() Config {
	return Config{
		LogLevel:         "info",
		DefaultIndexKind: "HASH",
		BTreeOrder:       4,
		HashBucketCount:  127,
	}
}

// LoadConfig reads YAML configuration from path, filling in any field the
// file omits from DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) indexKind() schema.IndexKind {
	if c.DefaultIndexKind == "BTREE" {
		return schema.BTreeIndex
	}
	return schema.HashIndex
}

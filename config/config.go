// Package config loads the weaving proxy's configuration document: the
// listen address and the set of upstream endpoints to weave together.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/FX-HAO/graphql-weaver/weaverdef"
)

const envPrefix = "WEAVER"

// Config is the top-level configuration document.
type Config struct {
	Listen    string                     `json:"listen"`
	Endpoints []weaverdef.EndpointConfig `json:"endpoints"`
}

// Load reads the JSON document at path, rejecting unknown fields, then
// applies WEAVER_-prefixed environment overrides on top of it.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &weaverdef.ConfigError{Reason: fmt.Sprintf("reading %s: %v", path, err)}
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, &weaverdef.ConfigError{Reason: fmt.Sprintf("decoding %s: %v", path, err)}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, &weaverdef.ConfigError{Reason: fmt.Sprintf("applying %s_ environment overrides: %v", envPrefix, err)}
	}

	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if len(cfg.Endpoints) == 0 {
		return nil, &weaverdef.ConfigError{Reason: "no endpoints configured"}
	}
	return &cfg, nil
}

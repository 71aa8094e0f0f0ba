package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/siteconfig"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "docsite.yaml"

// Load reads a YAML (or JSON) site configuration and returns its root node.
// Dotenv files next to the config are loaded first, then ${VAR} references in
// scalar values are expanded from the environment. A bare '$' is literal text.
func Load(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.ConfigError("configuration file not found: " + path).
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read configuration file "+path).
			Retryable().
			WithContext("path", path).
			Build()
	}

	if err := loadEnvFiles(filepath.Dir(path)); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to load .env file next to "+path).
			Fatal().
			WithContext("path", path).
			Build()
	}

	doc, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	if err := expandEnv(doc); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to expand environment in "+path).
			Fatal().
			UserAction().
			WithContext("path", path).
			Build()
	}
	return doc, nil
}

// Parse decodes a single configuration document. name is only used in errors.
func Parse(name string, data []byte) (*yaml.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration file "+name).
			Fatal().
			WithContext("path", name).
			Build()
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !stderrors.Is(err, io.EOF) {
		return nil, errors.ConfigError(name + " must contain a single YAML document").
			WithContext("path", name).
			Build()
	}
	return &doc, nil
}

// LoadAndResolve loads the file at path and resolves it into a SiteConfig.
// Resolver errors keep their classification and gain the file path as context.
func LoadAndResolve(path string, source siteconfig.DescriptionSource, opts ...siteconfig.Option) (*siteconfig.SiteConfig, error) {
	raw, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg, err := siteconfig.Resolve(raw, source, opts...)
	if err != nil {
		if c, ok := errors.AsClassified(err); ok {
			return nil, c.WithContext("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

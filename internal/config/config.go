// Package config provides functionality for managing configuration options
// for the application using command-line flags, an optional config file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `json:"addr" yaml:"addr"`

	// StorageKind selects the backend: file, sqlite, postgres or memory.
	StorageKind string `json:"storage_kind" yaml:"storage_kind"`

	// StorageDSN is a directory for file storage, a database path for
	// sqlite and a connection string for postgres.
	StorageDSN string `json:"storage_dsn" yaml:"storage_dsn"`

	// GeneratorURL is the endpoint of the content generation service.
	GeneratorURL string `json:"generator_url" yaml:"generator_url"`

	// GeneratorModel is sent as the model name with every generation request.
	GeneratorModel string `json:"generator_model" yaml:"generator_model"`

	// GeneratorToken is sent as a bearer token when set.
	GeneratorToken string `json:"generator_token" yaml:"generator_token"`

	// GeneratorFixture is a local response document used instead of GeneratorURL.
	GeneratorFixture string `json:"generator_fixture" yaml:"generator_fixture"`

	// LogLevel is a zap level name.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert" yaml:"tls_cert"`
	TLSKey  string `json:"tls_key" yaml:"tls_key"`

	// Config is the path to the Config file.
	Config string `json:"-" yaml:"-"`
}

// Default returns the options used when nothing else is configured.
func Default() *Options {
	return &Options{
		Addr:           "localhost:8080",
		StorageKind:    "file",
		StorageDSN:     "data",
		GeneratorModel: "gpt-3.5-turbo",
		LogLevel:       "info",
		Config:         "config.json",
	}
}

// RegisterFlags binds o to flags on set. Current values of o become the
// flag defaults.
func RegisterFlags(set *flag.FlagSet, o *Options) {
	set.StringVar(&o.Addr, "a", o.Addr, "run on ip:port server")
	set.StringVar(&o.StorageKind, "s", o.StorageKind, "storage kind: file, sqlite, postgres or memory")
	set.StringVar(&o.StorageDSN, "d", o.StorageDSN, "storage directory, sqlite path or postgres dsn")
	set.StringVar(&o.GeneratorURL, "g", o.GeneratorURL, "content generation endpoint")
	set.StringVar(&o.GeneratorModel, "m", o.GeneratorModel, "content generation model")
	set.StringVar(&o.GeneratorFixture, "f", o.GeneratorFixture, "serve generation from a local response file")
	set.StringVar(&o.LogLevel, "l", o.LogLevel, "log level")
	set.StringVar(&o.TLSCert, "tls-cert", o.TLSCert, "TLS certificate path")
	set.StringVar(&o.TLSKey, "tls-key", o.TLSKey, "TLS key path")
	set.StringVar(&o.Config, "config", o.Config, "path to config file")
	set.StringVar(&o.Config, "c", o.Config, "path to config file (shorthand)")
}

// Load applies the config file and then environment variables on top of o.
// A missing config file is not an error.
func Load(o *Options, getenv func(string) string) error {
	if configPath := getenv("CONFIG"); configPath != "" {
		o.Config = configPath
	}

	if o.Config != "" {
		data, err := os.ReadFile(o.Config)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return fmt.Errorf("error while reading config file: %w", err)
		default:
			if err := decode(o.Config, data, o); err != nil {
				return fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	env := map[string]*string{
		"SERVER_ADDRESS":    &o.Addr,
		"STORAGE_KIND":      &o.StorageKind,
		"STORAGE_DSN":       &o.StorageDSN,
		"GENERATOR_URL":     &o.GeneratorURL,
		"GENERATOR_MODEL":   &o.GeneratorModel,
		"GENERATOR_TOKEN":   &o.GeneratorToken,
		"GENERATOR_FIXTURE": &o.GeneratorFixture,
		"LOG_LEVEL":         &o.LogLevel,
		"TLS_CERT":          &o.TLSCert,
		"TLS_KEY":           &o.TLSKey,
	}
	for name, dst := range env {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}
	return nil
}

func decode(path string, data []byte, o *Options) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, o)
	default:
		return json.Unmarshal(data, o)
	}
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	options := Default()
	RegisterFlags(flag.CommandLine, options)
	flag.Parse()

	if err := Load(options, os.Getenv); err != nil {
		log.Fatal(err)
	}
	return options
}

// Package config resolves generator settings from flags, the environment and
// an optional .env file.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SinkFile     = "file"
	SinkS3       = "s3"
	SinkPostgres = "postgres"
)

type Config struct {
	Inputs      InputConfig
	Package     string
	OutDir      string
	Sink        string
	Namespace   string
	Formatter   string
	GofmtPath   string
	DatabaseURL string
	LogLevel    string
	LogFormat   string
	Artifact    ArtifactConfig
}

// InputConfig names the three dataset files. Compressed variants
// (.gz, .zst, .lz4) are accepted.
type InputConfig struct {
	Prefixes string
	Caniuse  string
	BCD      string
}

type ArtifactConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads .env (if present), then the environment, then args. Flags win
// over the environment.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("compatgen", flag.ContinueOnError)
	cfg := &Config{}
	fs.StringVar(&cfg.Inputs.Prefixes, "prefixes", env("COMPATGEN_PREFIXES", ""), "vendor prefix table (JSON)")
	fs.StringVar(&cfg.Inputs.Caniuse, "caniuse", env("COMPATGEN_CANIUSE", ""), "caniuse data.json")
	fs.StringVar(&cfg.Inputs.BCD, "bcd", env("COMPATGEN_BCD", ""), "browser-compat-data JSON")
	fs.StringVar(&cfg.OutDir, "out", env("COMPATGEN_OUT", "generated"), "output directory for the file sink")
	fs.StringVar(&cfg.Package, "package", env("COMPATGEN_PACKAGE", "compat"), "Go package name of generated sources")
	fs.StringVar(&cfg.Sink, "sink", env("COMPATGEN_SINK", SinkFile), "artifact sink: file, s3 or postgres")
	fs.StringVar(&cfg.Namespace, "namespace", env("COMPATGEN_NAMESPACE", ""), "key prefix for s3 and postgres sinks")
	fs.StringVar(&cfg.Formatter, "formatter", env("COMPATGEN_FORMATTER", "gofmt"), "Go formatter: gofmt, builtin or none")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.GofmtPath = env("COMPATGEN_GOFMT", "")
	cfg.DatabaseURL = env("DATABASE_URL", "")
	cfg.LogLevel = env("LOG_LEVEL", "info")
	cfg.LogFormat = env("LOG_FORMAT", "text")
	cfg.Artifact = loadArtifactConfig()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var missing []string
	if c.Inputs.Prefixes == "" {
		missing = append(missing, "-prefixes")
	}
	if c.Inputs.Caniuse == "" {
		missing = append(missing, "-caniuse")
	}
	if c.Inputs.BCD == "" {
		missing = append(missing, "-bcd")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing inputs: %s", strings.Join(missing, ", "))
	}
	switch c.Sink {
	case SinkFile:
		if c.OutDir == "" {
			return fmt.Errorf("file sink needs -out")
		}
	case SinkS3:
		if c.Artifact.Endpoint == "" {
			return fmt.Errorf("s3 sink needs ARTIFACT_S3_ENDPOINT")
		}
	case SinkPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("postgres sink needs DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown sink %q", c.Sink)
	}
	return nil
}

func loadArtifactConfig() ArtifactConfig {
	return ArtifactConfig{
		Endpoint:  env("ARTIFACT_S3_ENDPOINT", ""),
		Region:    firstNonEmpty(env("ARTIFACT_S3_REGION", ""), "us-east-1"),
		AccessKey: firstNonEmpty(env("ARTIFACT_S3_ACCESS_KEY", ""), env("MINIO_ROOT_USER", "")),
		SecretKey: firstNonEmpty(env("ARTIFACT_S3_SECRET_KEY", ""), env("MINIO_ROOT_PASSWORD", "")),
		Bucket:    firstNonEmpty(env("ARTIFACT_S3_BUCKET", ""), "compat-artifacts"),
		UseSSL:    ParseBool(env("ARTIFACT_S3_USE_SSL", ""), true),
	}
}

// ParseBool falls back to def on empty or malformed input.
func ParseBool(raw string, def bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func env(key, def string) string {
	return firstNonEmpty(strings.TrimSpace(os.Getenv(key)), def)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	internalErrors "github.com/gcbaptista/go-site-index/internal/errors"
)

// Store backends for the persisted index artifact.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreS3     = "s3"
)

// BuildSettings is the full configuration of an index build and of the query runtime.
type BuildSettings struct {
	ProjectDir      string         // Root of the host application
	SourceDir       string         // Build output directory; empty means auto-probe
	PrerenderRoutes string         // JSON file with prerender route descriptors; empty disables the prerender source
	Filters         FilterSettings // Exclude patterns and robots.txt handling
	IndexPath       string         // Artifact location (file path or sqlite database), relative to ProjectDir
	Store           string         // One of StoreFile, StoreSQLite, StoreS3
	S3Bucket        string
	S3Key           string
	S3Region        string
	Concurrency     int    // Parallel page loads during a build
	Port            string // Query server port
	Override        bool   // Replace an existing artifact on export
	Index           IndexSettings
}

// NewViper returns a viper instance with every build default registered.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("project_dir", ".")
	v.SetDefault("index_path", ".site-index/index.json")
	v.SetDefault("store", StoreFile)
	v.SetDefault("s3.key", "site-index/index.json")
	v.SetDefault("concurrency", 8)
	v.SetDefault("port", "8080")
	v.SetDefault("override", true)
	v.SetEnvPrefix("SITE_INDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadFile reads a config file (toml, yaml or json, by extension) on top of the defaults.
func LoadFile(path string) (*BuildSettings, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return Load(v)
}

// Load builds validated BuildSettings from a populated viper instance.
func Load(v *viper.Viper) (*BuildSettings, error) {
	settings := &BuildSettings{
		ProjectDir:      v.GetString("project_dir"),
		SourceDir:       v.GetString("source_dir"),
		PrerenderRoutes: v.GetString("prerender_routes"),
		IndexPath:       v.GetString("index_path"),
		Store:           strings.ToLower(v.GetString("store")),
		S3Bucket:        v.GetString("s3.bucket"),
		S3Key:           v.GetString("s3.key"),
		S3Region:        v.GetString("s3.region"),
		Concurrency:     v.GetInt("concurrency"),
		Port:            v.GetString("port"),
		Override:        v.GetBool("override"),
	}

	if v.IsSet("exclude") {
		settings.Filters.Exclude = ParseExclude(v.Get("exclude"))
	}
	if v.IsSet("robots_txt") {
		settings.Filters.RobotsTxt = ParseRobotsTxt(v.Get("robots_txt"))
	}

	if err := v.UnmarshalKey("index", &settings.Index); err != nil {
		return nil, internalErrors.NewConfigurationError("index", err.Error())
	}
	settings.Index.ApplyDefaults()

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate reports the first configuration problem found.
func (s *BuildSettings) Validate() error {
	if strings.TrimSpace(s.ProjectDir) == "" {
		return internalErrors.NewConfigurationError("project_dir", "cannot be empty")
	}
	switch s.Store {
	case StoreFile, StoreSQLite:
		if strings.TrimSpace(s.IndexPath) == "" {
			return internalErrors.NewConfigurationError("index_path", "cannot be empty for store '"+s.Store+"'")
		}
	case StoreS3:
		if s.S3Bucket == "" {
			return internalErrors.NewConfigurationError("s3.bucket", "required when store is 's3'")
		}
		if s.S3Key == "" {
			return internalErrors.NewConfigurationError("s3.key", "required when store is 's3'")
		}
	default:
		return internalErrors.NewConfigurationError("store", fmt.Sprintf("unknown store '%s'", s.Store))
	}
	if s.Concurrency < 1 {
		return internalErrors.NewConfigurationError("concurrency", "must be at least 1")
	}
	if conflicts := s.Index.ValidateFieldNames(); len(conflicts) > 0 {
		return internalErrors.NewConfigurationError("index", strings.Join(conflicts, "; "))
	}
	return nil
}

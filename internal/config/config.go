package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName   = "camnotion"
	envPrefix = "CAMNOTION"

	// DefaultEnvFile is read from the working directory, like the web app's
	// local secrets file.
	DefaultEnvFile = ".env.local"
)

// NotionConfig defines the target database and how photo fields map to its properties.
type NotionConfig struct {
	Token      string        `mapstructure:"token"`
	DatabaseID string        `mapstructure:"database_id"`
	BaseURL    string        `mapstructure:"base_url"`
	Version    string        `mapstructure:"version"`
	Timeout    time.Duration `mapstructure:"timeout"`

	Properties PropertyNames `mapstructure:"properties"`
}

// PropertyNames names the database property each photo field is written to.
// An empty name skips that field.
type PropertyNames struct {
	Title        string `mapstructure:"title"`
	Image        string `mapstructure:"image"`
	Camera       string `mapstructure:"camera"`
	Lens         string `mapstructure:"lens"`
	Aperture     string `mapstructure:"aperture"`
	ShutterSpeed string `mapstructure:"shutter_speed"`
	ISO          string `mapstructure:"iso"`
	FocalLength  string `mapstructure:"focal_length"`
	Dimensions   string `mapstructure:"dimensions"`
	DateTaken    string `mapstructure:"date_taken"`
}

// ImgBBConfig defines the optional image host. Without an API key photos
// are recorded without an image.
type ImgBBConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	UploadURL  string        `mapstructure:"upload_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type PhotosConfig struct {
	Extensions []string `mapstructure:"extensions"`
}

// CamnotionConfig defines the configuration for camnotion.
type CamnotionConfig struct {
	Notion NotionConfig `mapstructure:"notion"`
	ImgBB  ImgBBConfig  `mapstructure:"imgbb"`
	Photos PhotosConfig `mapstructure:"photos"`

	path string `mapstructure:"-"`
}

// Path returns the config file that was read, or "" when none was.
func (c *CamnotionConfig) Path() string {
	return c.path
}

func (c *CamnotionConfig) Validate() error {
	var missing []string
	if c.Notion.Token == "" {
		missing = append(missing, "notion.token (NOTION_TOKEN or NOTION_API_KEY)")
	}
	if c.Notion.DatabaseID == "" {
		missing = append(missing, "notion.database_id (NOTION_GALLERY_DATABASE_ID or DATABASE_ID)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	if c.Notion.Properties.Title == "" {
		return errors.New("notion.properties.title must not be empty")
	}
	if len(c.Photos.Extensions) == 0 {
		return errors.New("photos.extensions must not be empty")
	}
	return nil
}

// HasImageHost reports whether photos should be uploaded to imgbb.
func (c *CamnotionConfig) HasImageHost() bool {
	return c.ImgBB.APIKey != ""
}

// envBindings lists the plain environment variables read for each key, in
// priority order. These are the names the gallery web app already uses.
var envBindings = []struct {
	key   string
	names []string
}{
	{"notion.token", []string{"NOTION_TOKEN", "NOTION_API_KEY"}},
	{"notion.database_id", []string{"NOTION_GALLERY_DATABASE_ID", "DATABASE_ID"}},
	{"imgbb.api_key", []string{"IMGBB_API_KEY"}},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("notion.token", "")
	v.SetDefault("notion.database_id", "")
	v.SetDefault("notion.base_url", "https://api.notion.com/v1")
	v.SetDefault("notion.version", "2022-06-28")
	v.SetDefault("notion.timeout", "30s")

	v.SetDefault("notion.properties.title", "Title")
	v.SetDefault("notion.properties.image", "Image")
	v.SetDefault("notion.properties.camera", "Camera")
	v.SetDefault("notion.properties.lens", "")
	v.SetDefault("notion.properties.aperture", "Aperture")
	v.SetDefault("notion.properties.shutter_speed", "ShutterSpeed")
	v.SetDefault("notion.properties.iso", "ISO")
	v.SetDefault("notion.properties.focal_length", "FocalLength")
	v.SetDefault("notion.properties.dimensions", "")
	v.SetDefault("notion.properties.date_taken", "")

	v.SetDefault("imgbb.api_key", "")
	v.SetDefault("imgbb.upload_url", "https://api.imgbb.com/1/upload")
	v.SetDefault("imgbb.timeout", "60s")
	v.SetDefault("imgbb.expiration", "0s")

	v.SetDefault("photos.extensions", []string{".jpg", ".jpeg", ".png", ".tiff", ".tif"})
}

// DefaultConfigPath returns the default path for the camnotion config file.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("unable to determine user config dir: %w", err)
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// LoadConfig reads configuration from, highest priority first: environment
// variables, envFiles (dotenv format, missing files ignored), the TOML config
// file and built-in defaults.
//
// An explicit configPathFlag must exist. The default config file is optional.
func LoadConfig(configPathFlag string, envFiles ...string) (CamnotionConfig, error) {
	v := viper.New()
	setDefaults(v)

	// Allow users to override any value with CAMNOTION_ prefixed variables,
	// e.g. CAMNOTION_NOTION_DATABASE_ID.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, b := range envBindings {
		if err := v.BindEnv(append([]string{b.key}, b.names...)...); err != nil {
			return CamnotionConfig{}, fmt.Errorf("error binding env for %s: %w", b.key, err)
		}
	}

	path := configPathFlag
	if path == "" {
		if p, err := DefaultConfigPath(); err == nil {
			if _, statErr := os.Stat(p); statErr == nil {
				path = p
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return CamnotionConfig{}, fmt.Errorf("error reading (%s): %w", path, err)
		}
	}

	if err := applyEnvFiles(v, envFiles); err != nil {
		return CamnotionConfig{}, err
	}

	config := CamnotionConfig{path: path}
	if err := v.Unmarshal(&config); err != nil {
		return CamnotionConfig{}, fmt.Errorf("error unmarshaling (%s): %w", path, err)
	}
	for i, ext := range config.Photos.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		config.Photos.Extensions[i] = ext
	}
	return config, nil
}

// applyEnvFiles fills keys from dotenv files when the process environment
// does not set them. The process environment itself is left untouched.
func applyEnvFiles(v *viper.Viper, envFiles []string) error {
	var existing []string
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	// Later files override earlier ones.
	fileEnv, err := godotenv.Read(existing...)
	if err != nil {
		return fmt.Errorf("error reading env files %v: %w", existing, err)
	}

	for _, b := range envBindings {
		if envSet(envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(b.key, ".", "_"))) || envSet(b.names...) {
			continue
		}
		for _, name := range b.names {
			if val := fileEnv[name]; val != "" {
				v.Set(b.key, val)
				break
			}
		}
	}
	return nil
}

func envSet(names ...string) bool {
	for _, name := range names {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

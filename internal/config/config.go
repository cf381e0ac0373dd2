// Package config holds the option set shared by every picogen mode.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the resolved option set. The same struct round-trips through the
// config mode's JSON blob when the dev watcher relaunches the server
// subprocess, so the json and mapstructure keys must stay in sync.
type Config struct {
	Mode     string `mapstructure:"mode" json:"mode"`
	Page     string `mapstructure:"page" json:"page"`
	Static   string `mapstructure:"static" json:"static"`
	Lib      string `mapstructure:"lib" json:"lib"`
	Output   string `mapstructure:"output" json:"output"`
	Input    string `mapstructure:"input" json:"input"`
	CurDir   string `mapstructure:"curdir" json:"curdir"`
	Port     int    `mapstructure:"port" json:"port"`
	Wait     int    `mapstructure:"wait" json:"wait"`
	NoLog    bool   `mapstructure:"nolog" json:"nolog"`
	NoReload bool   `mapstructure:"noreload" json:"noreload"`
	NoOpen   bool   `mapstructure:"noopen" json:"noopen"`

	// Dimensions for hosts that embed the preview in an iframe-style viewer.
	// Accepted and passed through, nothing in the CLI renders them.
	ViewerWidth  string `mapstructure:"viewer-width" json:"viewer-width"`
	ViewerHeight string `mapstructure:"viewer-height" json:"viewer-height"`
}

// SetDefaults registers the default value of every option on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("page", "pages")
	v.SetDefault("static", "static")
	v.SetDefault("lib", "libs")
	v.SetDefault("output", "dist")
	v.SetDefault("input", "")
	v.SetDefault("curdir", "")
	v.SetDefault("port", 8000)
	v.SetDefault("wait", 5)
	v.SetDefault("nolog", false)
	v.SetDefault("noreload", false)
	v.SetDefault("noopen", false)
	v.SetDefault("viewer-width", "600")
	v.SetDefault("viewer-height", "600")
}

// baseDir is the directory all relative paths resolve against: the curdir
// override when set, the working directory otherwise.
func (c *Config) baseDir() string {
	if c.CurDir != "" {
		return c.CurDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func (c *Config) resolve(rel string) string {
	if rel == "" {
		return c.baseDir()
	}
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.baseDir(), rel)
}

// BasePath returns the directory relative paths resolve against.
func (c *Config) BasePath() string { return c.baseDir() }

// PagePath returns the absolute page-source root.
func (c *Config) PagePath() string { return c.resolve(c.Page) }

// StaticPath returns the absolute static-asset root.
func (c *Config) StaticPath() string { return c.resolve(c.Static) }

// LibPath returns the absolute shared-library root.
func (c *Config) LibPath() string { return c.resolve(c.Lib) }

// OutputPath returns the absolute output root.
func (c *Config) OutputPath() string { return c.resolve(c.Output) }

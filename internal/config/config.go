// Package config holds runtime configuration for a cutover run. Values are
// populated from .cutover.yaml, CUTOVER_* env vars, and CLI flags, with
// built-in defaults matching the project layout the pipeline was written for.
package config

import "github.com/spf13/viper"

// Config holds all paths and tool locations for one release preparation.
// All relative paths resolve against the project directory.
type Config struct {
	Manifest           string `mapstructure:"manifest"`
	Changelog          string `mapstructure:"changelog"`
	Metainfo           string `mapstructure:"metainfo"`
	FlatpakManifest    string `mapstructure:"flatpak_manifest"`
	FastlaneDir        string `mapstructure:"fastlane_dir"`
	CliffPath          string `mapstructure:"cliff_path"`
	GitPath            string `mapstructure:"git_path"`
	LockCommand        string `mapstructure:"lock_command"`
	ReleaseDescription bool   `mapstructure:"release_description"`
	Verbose            bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("manifest", "Cargo.toml")
	viper.SetDefault("changelog", "CHANGELOG.md")
	viper.SetDefault("metainfo", "assets/com.trougnouf.Cfait.metainfo.xml")
	viper.SetDefault("flatpak_manifest", "com.trougnouf.Cfait.yml")
	viper.SetDefault("fastlane_dir", "fastlane/metadata/android/en-US/changelogs")
	viper.SetDefault("cliff_path", "git-cliff")
	viper.SetDefault("git_path", "git")
	viper.SetDefault("lock_command", "")
	viper.SetDefault("release_description", true)
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}

// Package config resolves todopuzzle settings from layered sources. Each
// layer overrides the ones before it:
//
//	defaults
//	user file     ~/.todopuzzle/todopuzzle.toml, else <config dir>/todopuzzle/todopuzzle.toml
//	project file  ./todopuzzle.toml, else ./.todopuzzle.toml
//	environment   TODOPUZZLE_*
//	flags
//
// <config dir> is %APPDATA% on Windows, ~/Library/Application Support on
// macOS and $XDG_CONFIG_HOME (default ~/.config) elsewhere.
//
// Relative file settings are resolved against the project root, the
// working directory at load time. LoadWithSources also reports which
// layer supplied each key, which `todopuzzle config` prints.
package config

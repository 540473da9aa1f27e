// Package config loads the optional padlock settings file.
//
// Settings live in a config.yaml under the platform configuration
// directory (e.g. ~/.config/padlock/config.yaml on Linux,
// %LOCALAPPDATA%\padlock\config.yaml on Windows). Every setting has a
// built-in default, so running without a file is the normal case.
package config

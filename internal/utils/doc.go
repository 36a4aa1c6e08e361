// Package utils provides ambient infrastructure shared across commands:
// Viper-backed configuration loading with embedded defaults, zap logger
// construction, and small I/O helpers.
package utils

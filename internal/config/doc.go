// Package config defines the application configuration structures and the
// viper-based loading and validation logic.
package config

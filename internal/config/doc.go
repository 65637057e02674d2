// ABOUTME: Runtime configuration for the endpoint
// ABOUTME: Layers a config file and environment variables over compiled-in defaults via viper
// Package config gathers the compile-time constants of spec §6 into a
// runtime-configurable set: a coherent default tuple, overridable by a
// config file and by environment variables, using
// github.com/spf13/viper the way ijakenorton-Roundtable's cmd/config
// package does.
package config

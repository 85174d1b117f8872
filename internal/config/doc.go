// Package config assembles the service configuration.
//
// Values are collected from an optional .env file, environment variables,
// command-line flags, an optional JSON file and built-in defaults, then merged
// with mergo. Earlier sources take precedence: a value set in the environment
// is never overridden by the JSON file, and defaults only fill what no source
// provided. The merged result is validated before it is returned.
package config

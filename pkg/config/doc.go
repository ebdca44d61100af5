// Package config loads tempo's YAML configuration files.
//
// Files are validated against the JSON schema of their type before they are
// decoded, so errors point at the offending line of the source.
package config

// Package config provides configuration structures and utilities for mailscrub.
// It defines the redirect targets, cleanup options, report preferences and
// session storage settings, and loads the optional .mailscrub YAML file.
package config

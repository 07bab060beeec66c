/*
Package config loads pipetrack settings from YAML or JSON.

# Overview

Config wraps a decoded map[string]any and provides typed accessors that
return a default when a key is missing or holds the wrong type. Keys may be
dotted paths into nested sections:

	cfg, err := config.FromFile("pipetrack.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	path := cfg.String("store.path", "./events.db")
	attempts := cfg.Int("retry.max_attempts", 3)

LoadSettings turns a Config into validated Settings for the executor:

	settings, err := config.LoadSettings(cfg)

# File Layout

	log:
	  level: info        # debug, info, warn, error
	  format: json       # json or text
	store:
	  kind: sqlite       # memory or sqlite
	  path: ./events.db
	metrics: true
	tracing: false
	retry:
	  max_attempts: 3
	  initial_backoff: 500ms
	  max_backoff: 10s
	  backoff_factor: 2
	  jitter: 0.1

# Type Coercion

Duration accepts strings parsed with time.ParseDuration and numbers
interpreted as seconds. Int accepts float64 values without a fractional
part, which is how JSON numbers decode.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config

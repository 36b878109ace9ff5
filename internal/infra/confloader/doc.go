// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader on top of koanf that
// merges several sources into one typed struct.
//
// Sources (highest to lowest priority):
//
//  1. Maps loaded through LoadMap (command-line flags)
//  2. Environment aliases (WithEnvAliases, e.g. PORT)
//  3. Prefixed environment variables (WithEnvPrefix, e.g. DEMO_SECTION_KEY)
//  4. Configuration file (YAML, JSON or TOML, chosen by extension)
//  5. Defaults (WithDefaults)
//
// Watcher reports settled writes to watched configuration files so that
// callers can reload selected settings at runtime.
package confloader

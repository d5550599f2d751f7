// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config reads reader configuration from layered sources.
//
// Every [Source] writes its values into a shared [Store]. Sources are
// applied in order, so later sources override earlier ones:
//
//	m, err := config.Read(
//	    config.File(nil, "reader.yaml"),
//	    config.FromEnv("FLATFILE_"),
//	)
//
// [File] renders the config file as a text/template and parses it as
// JSON or YAML depending on its extension.
//
// The merged values are then decoded into a struct whose fields are
// tagged with "config":
//
//	var cfg struct {
//	    FilePath string `config:"file_path"`
//	}
//	err = m.Unmarshal(&cfg)
package config

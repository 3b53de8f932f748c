// Package config loads and saves the engine's tunable options as a
// TOML file, following the same load-falls-back-to-defaults contract
// used elsewhere in the ecosystem for CLI tool configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"rival/core"
)

// File mirrors core.EngineOptions in TOML-friendly form.
type File struct {
	Hash         int    `toml:"hash_mb"`
	NNUEFile     string `toml:"nnue_file"`
	UseNNUE      bool   `toml:"use_nnue"`
	NullMove     bool   `toml:"null_move_pruning"`
	DeltaPruning bool   `toml:"delta_pruning"`
	DeltaMargin  int    `toml:"delta_margin"`
}

func defaultFile() File {
	opts := core.DefaultEngineOptions()
	return File{
		Hash:         opts.HashMB,
		NNUEFile:     opts.NNUEFile,
		UseNNUE:      opts.UseNNUE,
		NullMove:     opts.NullMove,
		DeltaPruning: opts.DeltaPruning,
		DeltaMargin:  opts.DeltaMargin,
	}
}

func (f File) toEngineOptions() core.EngineOptions {
	return core.EngineOptions{
		HashMB:       f.Hash,
		NNUEFile:     f.NNUEFile,
		UseNNUE:      f.UseNNUE,
		NullMove:     f.NullMove,
		DeltaPruning: f.DeltaPruning,
		DeltaMargin:  f.DeltaMargin,
	}
}

func fromEngineOptions(opts core.EngineOptions) File {
	return File{
		Hash:         opts.HashMB,
		NNUEFile:     opts.NNUEFile,
		UseNNUE:      opts.UseNNUE,
		NullMove:     opts.NullMove,
		DeltaPruning: opts.DeltaPruning,
		DeltaMargin:  opts.DeltaMargin,
	}
}

// Load reads opts from path. If the file doesn't exist or cannot be
// parsed, it returns core.DefaultEngineOptions() — this function never
// returns an error, since a missing or malformed config file is a
// degraded-but-recoverable condition, not a fatal one.
func Load(path string) core.EngineOptions {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaultFile().toEngineOptions()
	}

	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return defaultFile().toEngineOptions()
	}
	return f.toEngineOptions()
}

// Save writes opts to path in TOML form.
func Save(path string, opts core.EngineOptions) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: creating %s: %w", path, err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(fromEngineOptions(opts)); err != nil {
		return fmt.Errorf("config: encoding %s: %w", path, err)
	}
	return nil
}

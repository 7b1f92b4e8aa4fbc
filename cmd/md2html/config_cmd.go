package main

import (
	"fmt"

	"github.com/alnah/go-md2html/internal/yamlutil"
)

// runConfig prints the effective configuration as YAML after the config
// file and MD2HTML_* variables have been applied.
func runConfig(name string, env *Environment) error {
	cfg, err := loadConvertConfig(name, env)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(data)
	return err
}

// Package project provides project discovery and loading functionality.
package project

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigDirName is the name of the convtest configuration directory.
const ConfigDirName = ".convtest"

// ConfigFileNames lists the accepted configuration file names in lookup order.
var ConfigFileNames = []string{"config.yaml", "config.yml", "config.json"}

// ErrNoProjectRoot is returned when no .convtest/config.{yaml,yml,json} is found.
var ErrNoProjectRoot = errors.New(".convtest/config.yaml not found: not a convtest project (or any parent up to the root)")

// FindRoot walks up from the current working directory until it finds a project configuration.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(cwd)
}

// FindRootFrom walks up from the given directory until it finds a project configuration.
func FindRootFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if _, ok := configIn(dir); ok {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProjectRoot
		}
		dir = parent
	}
}

// configIn returns the first configuration file present under root.
func configIn(root string) (string, bool) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(root, ConfigDirName, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

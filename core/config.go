/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import (
	"math"

	"github.com/pelletier/go-toml"
)

var config *toml.Tree

// LoadConfig loads the configuration from the specified configuration file.
func LoadConfig(file string) {
	var err error
	config, err = toml.LoadFile(file)
	if err != nil {
		LogFatal("Config", "Unable to load configuration file: ", err)
	}
}

// ParseConfig replaces the loaded configuration with the TOML document in content.
func ParseConfig(content string) error {
	tree, err := toml.Load(content)
	if err != nil {
		return err
	}
	config = tree
	return nil
}

// ResetConfig discards the loaded configuration, so every getter returns its default.
func ResetConfig() {
	config = nil
}

func getConfig(key string) interface{} {
	if config == nil {
		return nil
	}
	return config.Get(key)
}

// GetConfigIntDefault returns the integer configuration value at the specified key or the specified default value if it does not exist.
func GetConfigIntDefault(key string, def int) int {
	valRaw := getConfig(key)
	if valRaw == nil {
		return def
	}
	val, ok := valRaw.(int64)
	if ok && val >= math.MinInt32 && val <= math.MaxInt32 {
		return int(val)
	}
	return def
}

// GetConfigBoolDefault returns the boolean configuration value at the specified key or the specified default value if it does not exist.
func GetConfigBoolDefault(key string, def bool) bool {
	valRaw := getConfig(key)
	if valRaw == nil {
		return def
	}
	val, ok := valRaw.(bool)
	if ok {
		return val
	}
	return def
}

// GetConfigStringDefault returns the string configuration value at the specified key or the specified default value if it does not exist.
func GetConfigStringDefault(key string, def string) string {
	valRaw := getConfig(key)
	if valRaw == nil {
		return def
	}
	val, ok := valRaw.(string)
	if ok {
		return val
	}
	return def
}

// GetConfigArrayString returns the configuration array value at the specified key or nil if it does not exist.
func GetConfigArrayString(key string) []string {
	valRaw := getConfig(key)
	if valRaw == nil {
		return nil
	}
	switch array := valRaw.(type) {
	case []string:
		return array
	case []interface{}:
		vals := make([]string, 0, len(array))
		for _, elem := range array {
			str, ok := elem.(string)
			if !ok {
				return nil
			}
			vals = append(vals, str)
		}
		return vals
	}
	return nil
}

// GetConfigStringMap returns the string-valued entries of the table at the specified key.
// Keys inside the table may contain characters that are not valid in a dotted path (e.g., "/"),
// so the table is looked up as a whole.
func GetConfigStringMap(key string) map[string]string {
	valRaw := getConfig(key)
	tree, ok := valRaw.(*toml.Tree)
	if !ok {
		return nil
	}
	out := make(map[string]string)
	for k, v := range tree.ToMap() {
		if str, ok := v.(string); ok {
			out[k] = str
		}
	}
	return out
}

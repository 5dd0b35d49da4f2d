package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML document accepted by LoadFromFile.
//
//	preset: live-streaming
//	playback:
//	  volume: 80
//	  hwdec: vaapi
type File struct {
	Preset   PresetName    `yaml:"preset"`
	Platform bool          `yaml:"platform"`
	Playback Configuration `yaml:"playback"`
}

// LoadFromFile loads a configuration from a YAML file.
// Unset fields keep the values of the named preset (or Default), and the
// result is always validated. The preset is applied before the document is
// decoded, so explicit playback fields win.
func LoadFromFile(path string) (Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), err
	}
	return Parse(data)
}

// Parse decodes a configuration document.
func Parse(data []byte) (Configuration, error) {
	var head struct {
		Preset PresetName `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Default(), err
	}

	base := Default()
	if head.Preset != "" {
		p, err := Preset(head.Preset)
		if err != nil {
			return Default(), err
		}
		base = p
	}

	doc := File{Playback: base}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Validate(base), err
	}

	cfg := doc.Playback
	if doc.Platform {
		cfg = ForCurrentPlatform(cfg)
	}
	return Validate(cfg), nil
}

// Marshal encodes c as a configuration document.
func Marshal(c Configuration) ([]byte, error) {
	return yaml.Marshal(File{Playback: c})
}

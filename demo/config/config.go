package config

import (
	"errors"
	"flag"
)

// Config carries the converter's command line options.
type Config struct {
	In     string // input scene, .obj or binary dump
	Out    string // optional OBJ output path
	BinOut string // optional binary dump output path

	Triangulate  bool
	NoExtensions bool
	InBinary     bool // treat input as a binary dump

	LoadTextures bool
	ReqComp      int

	LogFile string
	Verbose bool
}

func (cfg *Config) Extensions() bool {
	return !cfg.NoExtensions
}

// FromFlags parses the process arguments into a Config.
func FromFlags() (*Config, error) {
	cfg := &Config{}
	flag.StringVar(&cfg.In, "in", "", "input scene file (.obj or binary dump)")
	flag.StringVar(&cfg.Out, "out", "", "OBJ output path")
	flag.StringVar(&cfg.BinOut, "bin", "", "binary dump output path")
	flag.BoolVar(&cfg.Triangulate, "triangulate", false, "fan-triangulate faces on load")
	flag.BoolVar(&cfg.NoExtensions, "noext", false, "disable format extensions (cameras, envs, color, radius, frames)")
	flag.BoolVar(&cfg.InBinary, "inbin", false, "input is a binary dump")
	flag.BoolVar(&cfg.LoadTextures, "textures", false, "load texture pixel data after parsing")
	flag.IntVar(&cfg.ReqComp, "comp", 0, "forced texture component count (1-4, 0 = default)")
	flag.StringVar(&cfg.LogFile, "log", "", "rotating log file (in addition to stderr)")
	flag.BoolVar(&cfg.Verbose, "v", false, "dump scene structure after load")
	flag.Parse()
	if cfg.In == "" {
		return nil, errors.New("config: -in is required")
	}
	return cfg, nil
}

// Command demo converts between the OBJ text format and the binary scene
// dump: obj->bin, bin->obj, or either format re-emitted after
// triangulation or extension stripping.
package main

import (
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gorustyt/goobj/debug_utils"
	"github.com/gorustyt/goobj/demo/config"
	"github.com/gorustyt/goobj/obj"
	"github.com/gorustyt/goobj/scene"
)

func main() {
	cfg, err := config.FromFlags()
	if err != nil {
		zap.NewExample().Fatal("bad arguments", zap.Error(err))
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	sc, err := load(cfg, logger)
	if err != nil {
		logger.Fatal("load failed", zap.String("in", cfg.In), zap.Error(err))
	}
	logger.Info("scene loaded",
		zap.String("in", cfg.In),
		zap.Int("shapes", len(sc.Shapes)),
		zap.Int("materials", len(sc.Materials)),
		zap.Int("textures", len(sc.Textures)),
		zap.Int("cameras", len(sc.Cameras)),
		zap.Int("envs", len(sc.Envs)))
	if cfg.Verbose {
		debug_utils.DuDumpScene(sc)
	}

	if cfg.LoadTextures {
		if err := obj.LoadTextures(sc, cfg.In, cfg.ReqComp, nil); err != nil {
			logger.Fatal("texture load failed", zap.Error(err))
		}
		logger.Info("textures loaded", zap.Int("count", len(sc.Textures)))
	}

	if cfg.Out != "" {
		if err := obj.Save(cfg.Out, sc, cfg.Extensions()); err != nil {
			logger.Fatal("obj save failed", zap.String("out", cfg.Out), zap.Error(err))
		}
		logger.Info("obj written", zap.String("out", cfg.Out))
	}
	if cfg.BinOut != "" {
		if err := scene.SaveBinary(cfg.BinOut, sc, cfg.Extensions()); err != nil {
			logger.Fatal("binary save failed", zap.String("out", cfg.BinOut), zap.Error(err))
		}
		logger.Info("binary dump written", zap.String("out", cfg.BinOut))
	}
}

func load(cfg *config.Config, logger *zap.Logger) (*scene.Scene, error) {
	if cfg.InBinary {
		return scene.LoadBinary(cfg.In, cfg.Extensions())
	}
	l := &obj.Loader{Triangulate: cfg.Triangulate, Extensions: cfg.Extensions()}
	sc, err := l.Load(cfg.In)
	for _, w := range l.Warnings {
		logger.Warn("parse warning", zap.String("msg", w))
	}
	return sc, err
}

func newLogger(cfg *config.Config) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), zap.InfoLevel),
	}
	if cfg.LogFile != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    64, // MB
			MaxBackups: 3,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), sink, zap.InfoLevel))
	}
	return zap.New(zapcore.NewTee(cores...))
}

package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/cocoablast/common"
	"github.com/milk9111/cocoablast/prefabs"
	"github.com/milk9111/cocoablast/save"
	"github.com/milk9111/cocoablast/scene"
	"go.uber.org/zap"
)

const appName = "cocoablast"

func main() {
	debug := flag.Bool("debug", false, "enable debug logging and overlay")
	seed := flag.String("seed", "", "spawn seed (defaults to the scene file, then the clock)")
	watch := flag.Bool("watch", true, "reload prefabs and scripts edited under prefabs/")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := scene.LoadConfig()
	if err != nil {
		logger.Fatal("load scene config", zap.Error(err))
	}
	switch {
	case *seed != "":
		cfg.Seed = *seed
	case cfg.Seed == "":
		cfg.Seed = strconv.FormatInt(time.Now().UnixNano(), 10)
	}

	best, err := save.Open(appName, logger)
	if err != nil {
		logger.Warn("best score not loaded", zap.Error(err))
	}

	var game *Game
	sc, err := scene.New(cfg,
		scene.WithLogger(logger),
		scene.WithGameOver(func(score int) {
			game.Submit(score)
		}),
	)
	if err != nil {
		logger.Fatal("create scene", zap.Error(err))
	}

	var watcher *prefabs.Watcher
	if *watch {
		watcher = openWatcher(logger)
		if watcher != nil {
			defer watcher.Close()
		}
	}

	game = NewGame(sc, best, watcher, logger, *debug)

	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("CocoaBlast")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("run game", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// openWatcher watches the on-disk prefab tree when the game runs from a
// checkout. It returns nil when there is nothing to watch.
func openWatcher(logger *zap.Logger) *prefabs.Watcher {
	dirs := []string{prefabs.DiskDir, filepath.Join(prefabs.DiskDir, "scripts")}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				logger.Warn("prefab dir", zap.String("dir", dir), zap.Error(err))
			}
			return nil
		}
	}
	watcher, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		logger.Warn("prefab watcher", zap.Error(err))
		return nil
	}
	logger.Info("watching prefabs", zap.Strings("dirs", dirs))
	return watcher
}

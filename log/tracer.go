package log

import (
	"os"
	"path/filepath"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
)

const TimestampFormat = "Jan _2 2006 15:04:05.000000"

// LevelPaths maps every level to the same file.
func LevelPaths(path string) lfshook.PathMap {
	pathMap := lfshook.PathMap{}
	for _, level := range log.AllLevels {
		pathMap[level] = path
	}
	return pathMap
}

// AddFileHook writes every entry of logger to <dir>/<role>.log as JSON.
func AddFileHook(logger *log.Logger, dir string, role string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, role+".log")
	hook := lfshook.NewHook(
		LevelPaths(path),
		&log.JSONFormatter{
			TimestampFormat: TimestampFormat,
		},
	)
	logger.Hooks.Add(hook)
	return path, nil
}

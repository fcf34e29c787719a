// Package log wraps beego/logs the same way the teacher's log package does:
// a single process-wide async logger, level-named helpers, and an
// InitLogger entry point called once from main.
package log

import (
	"encoding/json"
	"fmt"
	"path"

	"github.com/astaxie/beego/logs"
)

var mlog *logs.BeeLogger

// Config mirrors the teacher's LogConfig shape.
type Config struct {
	Filename string `json:"filename"`
	Level    int    `json:"level,omitempty"`
	Rotate   bool   `json:"rotate,omitempty"`
	Daily    bool   `json:"daily,omitempty"`
	MaxDays  int64  `json:"maxdays,omitempty"`
}

func init() {
	mlog = logs.NewLogger()
	mlog.EnableFuncCallDepth(true)
	mlog.Async()
}

func validLevel(strLevel string) (int, bool) {
	switch strLevel {
	case "emergency":
		return logs.LevelEmergency, true
	case "alert":
		return logs.LevelAlert, true
	case "critical":
		return logs.LevelCritical, true
	case "error":
		return logs.LevelError, true
	case "warn":
		return logs.LevelWarn, true
	case "info":
		return logs.LevelInfo, true
	case "debug":
		return logs.LevelDebug, true
	case "notice":
		return logs.LevelNotice, true
	default:
		return 0, false
	}
}

// InitLogger configures the package logger to write rotating daily files
// under dir at the given level.
func InitLogger(dir, strLevel string) error {
	level, ok := validLevel(strLevel)
	if !ok {
		return fmt.Errorf("mismatched log level %q", strLevel)
	}
	config, err := json.Marshal(Config{
		Filename: path.Join(dir, "miner.log"),
		Rotate:   true,
		Daily:    true,
		Level:    level,
	})
	if err != nil {
		return err
	}
	// Drop the file adapter left by an earlier call, if any: beego rejects
	// a second adapter registered under the same name.
	_ = mlog.DelLogger(logs.AdapterFile)
	return mlog.SetLogger(logs.AdapterFile, string(config))
}

func Debug(format string, args ...interface{}) { mlog.Debug(format, args...) }
func Info(format string, args ...interface{})  { mlog.Info(format, args...) }
func Warn(format string, args ...interface{})  { mlog.Warn(format, args...) }
func Error(format string, args ...interface{}) { mlog.Error(format, args...) }

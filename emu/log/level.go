package log

import (
	"io"
	"sync/atomic"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level uint32

// Levels share logrus numbering so they can be passed through as is.
const (
	PanicLevel Level = Level(logrus.PanicLevel)
	FatalLevel Level = Level(logrus.FatalLevel)
	ErrorLevel Level = Level(logrus.ErrorLevel)
	WarnLevel  Level = Level(logrus.WarnLevel)
	InfoLevel  Level = Level(logrus.InfoLevel)
	DebugLevel Level = Level(logrus.DebugLevel)
)

func (lvl Level) String() string {
	return logrus.Level(lvl).String()
}

var disabled atomic.Bool

func init() {
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true})
}

// Disable turns off all logging, for all modules and levels.
func Disable() {
	disabled.Store(true)
}

// SetOutput redirects log output (stderr by default).
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

// A LogContext is a global object that adds fields to every log line, such as
// the current simulation cycle.
type LogContext interface {
	AddLogContext(entry *EntryZ)
}

var contexts []LogContext

func AddContext(ctx LogContext) {
	contexts = append(contexts, ctx)
}

func RemoveContext(ctx LogContext) {
	for i, c := range contexts {
		if c == ctx {
			contexts = append(contexts[:i], contexts[i+1:]...)
			return
		}
	}
}

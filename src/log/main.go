package log

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/op/go-logging"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// The logging library being used everywhere.
var Log = Logging{
	Logger: "logrus",
}

// -----------------
// This a gologging
// -> github.com/op/go-logging

var gologging = logging.MustGetLogger("translator")

// ConfigureGoLogging writes colored lines to stderr and plain lines to a
// rotating file in <configDirectory>/data/log.
func ConfigureGoLogging(level string, configDirectory string) {
	var colored = logging.MustStringFormatter(
		`%{color}%{time:15:04:05.000} %{shortfunc} ▶ %{level:.4s} %{id:03x}%{color:reset} %{message}`,
	)
	var plain = logging.MustStringFormatter(
		`%{time:15:04:05.000} %{shortfunc} ▶ %{level:.4s} %{id:03x} %{message}`,
	)
	stdBackend := logging.NewLogBackend(os.Stderr, "", 0)
	stdBackendLeveled := logging.NewBackendFormatter(stdBackend, colored)
	fileBackend := logging.NewLogBackend(&lumberjack.Logger{
		Filename:   filepath.Join(configDirectory, "data", "log", "translator.txt"),
		MaxSize:    2, // megabytes
		MaxBackups: 5,
		Compress:   true,
	}, "", 0)
	fileBackendLeveled := logging.NewBackendFormatter(fileBackend, plain)
	logging.SetBackend(stdBackendLeveled, fileBackendLeveled)

	goLevel, err := logging.LogLevel(strings.ToUpper(level))
	if err != nil {
		goLevel = logging.INFO
	}
	logging.SetLevel(goLevel, "")
}

// -----------------
// This a logrus
// -> github.com/sirupsen/logrus

func ConfigureLogrus(level string, timezone *time.Location) {
	logrus.SetFormatter(LocalTimeZoneFormatter{
		Timezone:  timezone,
		Formatter: &logrus.JSONFormatter{},
	})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(ParseLevel(level))
}

// ParseLevel maps the configured level onto logrus, info being the fallback.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "error":
		return logrus.ErrorLevel
	case "debug":
		return logrus.DebugLevel
	case "fatal":
		return logrus.FatalLevel
	case "warning", "warn":
		return logrus.WarnLevel
	}
	return logrus.InfoLevel
}

type LocalTimeZoneFormatter struct {
	Timezone  *time.Location
	Formatter logrus.Formatter
}

func (u LocalTimeZoneFormatter) Format(e *logrus.Entry) ([]byte, error) {
	if u.Timezone != nil {
		e.Time = e.Time.In(u.Timezone)
	}
	return u.Formatter.Format(e)
}

type Logging struct {
	Logger string
}

func (self *Logging) Init(level string, configDirectory string, timezone *time.Location) {
	switch self.Logger {
	case "go-logging":
		ConfigureGoLogging(level, configDirectory)
	case "logrus":
		ConfigureLogrus(level, timezone)
	default:
	}
}

func (self *Logging) Info(sentence string) {
	switch self.Logger {
	case "go-logging":
		gologging.Info(sentence)
	case "logrus":
		logrus.Info(sentence)
	default:
	}
}

func (self *Logging) Warning(sentence string) {
	switch self.Logger {
	case "go-logging":
		gologging.Warning(sentence)
	case "logrus":
		logrus.Warn(sentence)
	default:
	}
}

func (self *Logging) Debug(sentence string) {
	switch self.Logger {
	case "go-logging":
		gologging.Debug(sentence)
	case "logrus":
		logrus.Debug(sentence)
	default:
	}
}

func (self *Logging) Error(sentence string) {
	switch self.Logger {
	case "go-logging":
		gologging.Error(sentence)
	case "logrus":
		logrus.Error(sentence)
	default:
	}
}

func (self *Logging) Fatal(sentence string) {
	switch self.Logger {
	case "go-logging":
		gologging.Fatal(sentence)
	case "logrus":
		logrus.Fatal(sentence)
	default:
	}
}

package mdblog

import "github.com/labstack/gommon/log"

// Logger is the logging surface used outside request handling. echo.Logger
// and gommon's *log.Logger both satisfy it.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

var defaultLogger Logger = log.New("mdblog")

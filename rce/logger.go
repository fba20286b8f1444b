package rce

import "github.com/hhkbp2/go-logging"

// LoggerName はパッケージ共通のロガー名
const LoggerName = "rce"

func logger() logging.Logger {
	return logging.GetLogger(LoggerName)
}

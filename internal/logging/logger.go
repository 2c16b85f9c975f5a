package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hdzero/internal/config"
)

// Enterprise логгер с аудитом поверх zap
type EnterpriseLogger struct {
	zl    *zap.Logger
	sugar *zap.SugaredLogger
	file  *os.File
}

func NewEnterpriseLogger(cfg *config.Config, verbose bool) (*EnterpriseLogger, error) {
	level := parseLevel(cfg.Logging.Level)
	verbose = verbose || cfg.Logging.Verbose

	consoleLevel := zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	if verbose {
		consoleLevel.SetLevel(level)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), consoleLevel),
	}

	l := &EnterpriseLogger{}

	// Автоматическое создание директории для логов
	if cfg.Logging.File != "" {
		logDir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			// Если не можем создать директорию, пишем только в консоль
			fmt.Fprintf(os.Stderr, "[WARN] Не удалось создать директорию логов %s: %v\n", logDir, err)
		} else if f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Не удалось открыть файл логов %s: %v\n", cfg.Logging.File, err)
		} else {
			l.file = f
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level))
		}
	}

	l.zl = zap.New(zapcore.NewTee(cores...))
	l.sugar = l.zl.Sugar()
	return l, nil
}

// NewNop возвращает логгер, который ничего не пишет
func NewNop() *EnterpriseLogger {
	zl := zap.NewNop()
	return &EnterpriseLogger{zl: zl, sugar: zl.Sugar()}
}

// Log пишет сообщение с парами ключ-значение
func (l *EnterpriseLogger) Log(level, message string, fields ...interface{}) {
	if l == nil || l.sugar == nil {
		return
	}
	switch strings.ToUpper(level) {
	case "DEBUG":
		l.sugar.Debugw(message, fields...)
	case "WARN", "WARNING":
		l.sugar.Warnw(message, fields...)
	case "ERROR":
		l.sugar.Errorw(message, fields...)
	case "FATAL":
		// Процесс не завершаем, решение принимает вызывающий код
		l.sugar.Errorw(message, append(fields, "fatal", true)...)
	default:
		l.sugar.Infow(message, fields...)
	}
}

func (l *EnterpriseLogger) Close() error {
	if l.zl != nil {
		_ = l.zl.Sync()
	}
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

package logger

// Logger 日志接口
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
	WithField(key string, value interface{}) Logger
}

// NewLogger 按 driver 创建 Logger（zap / logrus，默认 logrus）
func NewLogger(driver, level, format, output, path string) (Logger, error) {
	if driver == "zap" {
		return NewZapLogger(level, format, output, path)
	}
	return NewLogrusLogger(level, format, output, path)
}

// Nop 空实现（测试用）
type Nop struct{}

func (Nop) Debug(args ...interface{})                        {}
func (Nop) Debugf(format string, args ...interface{})        {}
func (Nop) Info(args ...interface{})                         {}
func (Nop) Infof(format string, args ...interface{})         {}
func (Nop) Warn(args ...interface{})                         {}
func (Nop) Warnf(format string, args ...interface{})         {}
func (Nop) Error(args ...interface{})                        {}
func (Nop) Errorf(format string, args ...interface{})        {}
func (Nop) Fatal(args ...interface{})                        {}
func (Nop) Fatalf(format string, args ...interface{})        {}
func (n Nop) WithFields(fields map[string]interface{}) Logger { return n }
func (n Nop) WithField(key string, value interface{}) Logger  { return n }

package logger

// LoggerInstance defines the interface for logging backends.
type LoggerInstance interface {
	Log(message string, keyvals ...any)
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

// Logger fans every call out to its backends.
type Logger struct {
	instances []LoggerInstance
	fields    []any
}

var singleton *Logger

// Init installs the process-wide logger. Until it is called every logging
// function is a no-op, which keeps library code quiet in tests.
func Init(instances ...LoggerInstance) {
	singleton = &Logger{
		instances: instances,
	}
}

// With returns a logger that prepends keyvals to every entry. It is used to
// tag all lines of one extraction run with the same run id.
func With(keyvals ...any) *Logger {
	if singleton == nil {
		return &Logger{fields: keyvals}
	}
	fields := make([]any, 0, len(singleton.fields)+len(keyvals))
	fields = append(fields, singleton.fields...)
	fields = append(fields, keyvals...)
	return &Logger{instances: singleton.instances, fields: fields}
}

func (l *Logger) merge(keyvals []any) []any {
	if len(l.fields) == 0 {
		return keyvals
	}
	out := make([]any, 0, len(l.fields)+len(keyvals))
	out = append(out, l.fields...)
	return append(out, keyvals...)
}

func (l *Logger) Log(message string, keyvals ...any) {
	for _, instance := range l.instances {
		instance.Log(message, l.merge(keyvals)...)
	}
}

func (l *Logger) Debug(message string, keyvals ...any) {
	for _, instance := range l.instances {
		instance.Debug(message, l.merge(keyvals)...)
	}
}

func (l *Logger) Info(message string, keyvals ...any) {
	for _, instance := range l.instances {
		instance.Info(message, l.merge(keyvals)...)
	}
}

func (l *Logger) Warn(message string, keyvals ...any) {
	for _, instance := range l.instances {
		instance.Warn(message, l.merge(keyvals)...)
	}
}

func (l *Logger) Error(message string, keyvals ...any) {
	for _, instance := range l.instances {
		instance.Error(message, l.merge(keyvals)...)
	}
}

func (l *Logger) Fatal(message string, keyvals ...any) {
	for _, instance := range l.instances {
		instance.Fatal(message, l.merge(keyvals)...)
	}
}

// Log writes a message at the default log level to all configured backends.
func Log(message string, keyvals ...any) {
	if singleton == nil {
		return
	}
	singleton.Log(message, keyvals...)
}

// Info writes a message at INFO level to all configured backends.
func Info(message string, keyvals ...any) {
	if singleton == nil {
		return
	}
	singleton.Info(message, keyvals...)
}

// Warn writes a message at WARN level to all configured backends.
func Warn(message string, keyvals ...any) {
	if singleton == nil {
		return
	}
	singleton.Warn(message, keyvals...)
}

// Error writes a message at ERROR level to all configured backends.
func Error(message string, keyvals ...any) {
	if singleton == nil {
		return
	}
	singleton.Error(message, keyvals...)
}

// Debug writes a message at DEBUG level to all configured backends.
func Debug(message string, keyvals ...any) {
	if singleton == nil {
		return
	}
	singleton.Debug(message, keyvals...)
}

// Fatal writes a message at FATAL level and terminates the program.
func Fatal(message string, keyvals ...any) {
	if singleton == nil {
		return
	}
	singleton.Fatal(message, keyvals...)
}

package i

// Logger is a component logger. Every message is one line.
type Logger interface {
	Info(string)
	Warning(string)
	Error(string)
	Debug(string)
}

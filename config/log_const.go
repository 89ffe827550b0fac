package config

// Color constants for component loggers
const (
	ColorGreen   = "\033[32m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorRed     = "\033[31m"
	ColorReset   = "\033[0m"
)

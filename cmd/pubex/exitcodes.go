package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure, unwritable output)
	ExitConfigError = 2 // Configuration error (unsupported output format, invalid config file)
	ExitDataError   = 3 // Data error (malformed JSONL store)
)

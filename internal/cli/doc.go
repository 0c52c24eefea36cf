// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates the cobra command tree, with viper's environment fallback, into
// the application's internal configuration.
package cli

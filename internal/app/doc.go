// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the lifecycle of one command run (build,
// validate or boards), decoupled from any specific entrypoint like a CLI.
package app

package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vk/socforge/internal/app"
)

// EnvPrefix prefixes the environment variable of every flag: --board is
// also read from SOCFORGE_BOARD.
const EnvPrefix = "SOCFORGE"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var config *app.Config
	capture := func(cmd *cobra.Command, command string) error {
		cfg, err := configFrom(cmd, command)
		if err != nil {
			return err
		}
		config = cfg
		return nil
	}

	root := newRootCommand(capture)
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)

	if err := root.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if config == nil {
		// Help, or no command given.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func newRootCommand(capture func(*cobra.Command, string) error) *cobra.Command {
	root := &cobra.Command{
		Use:   "socforge",
		Short: "Compile FPGA system descriptions into synthesizable sources",
		Long: `socforge assembles an FPGA design from a library of hardware modules and
board definitions. It reads a system description, resolves instance
parameters and interconnect, and writes the top-level module, its parameter
header, pin constraints, IP scripts and the staged library sources.

Every flag can also be set through the environment: --board is read from
SOCFORGE_BOARD, --log-level from SOCFORGE_LOG_LEVEL, and so on.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("root", ".", "library root containing fpga/")
	root.PersistentFlags().String("log-level", "info", "logging level: debug, info, warn or error")
	root.PersistentFlags().String("log-format", "text", "log output format: text or json")

	build := &cobra.Command{
		Use:   "build",
		Short: "Compile a system and write the build directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return capture(cmd, app.CommandBuild)
		},
	}
	systemFlags(build.Flags())
	build.Flags().String("out", "build", "output directory")
	build.Flags().Bool("project", true, "also write the toolchain project scripts")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Load and check a system without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return capture(cmd, app.CommandValidate)
		},
	}
	systemFlags(validate.Flags())

	boards := &cobra.Command{
		Use:   "boards",
		Short: "List the boards available below the library root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return capture(cmd, app.CommandBoards)
		},
	}

	root.AddCommand(build, validate, boards)
	return root
}

func systemFlags(fs *pflag.FlagSet) {
	fs.String("system", "", "system document, or a directory holding system.<ext>")
	fs.String("board", "", "board short name under fpga/boards")
}

// configFrom reads the flags of cmd, falling back to the environment, and
// validates the result.
func configFrom(cmd *cobra.Command, command string) (*app.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	return app.NewConfig(app.Config{
		Command:   command,
		Root:      v.GetString("root"),
		System:    v.GetString("system"),
		Board:     v.GetString("board"),
		Out:       v.GetString("out"),
		Project:   v.GetBool("project"),
		LogFormat: strings.ToLower(v.GetString("log-format")),
		LogLevel:  strings.ToLower(v.GetString("log-level")),
	})
}

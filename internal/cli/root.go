package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/PathVault/internal/infrastructure/config"
	"github.com/GriffinCanCode/PathVault/internal/infrastructure/logging"
	"github.com/GriffinCanCode/PathVault/internal/vault"
)

// Build information, set by main from ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// SetVersionInfo records build metadata for the version command and the
// server root endpoint.
func SetVersionInfo(version, commit, built string) {
	Version, GitCommit, BuildTime = version, commit, built
}

// app carries state shared by every subcommand of one invocation.
type app struct {
	base       string
	configPath string
	envFile    string
	verbose    bool

	cfg    *config.Config
	logger *logging.Logger
	vault  *vault.Vault
}

// NewRootCommand builds the pathvault command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pathvault",
		Short: "Confined filesystem gateway for folders and files",
		Long: `PathVault manages folders and files beneath a single base directory.
Every path is interpreted relative to the base and paths containing ".."
are rejected. Run "pathvault serve" for the HTTP API or use the
subcommands directly against the base directory.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.base, "base", "", "base directory (defaults to VAULT_BASE_DIR or the config file)")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (.yaml, .yml or .toml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before configuration")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log vault operations to stderr")

	root.AddCommand(
		a.serveCommand(),
		a.mkdirCommand(),
		a.rmdirCommand(),
		a.rendirCommand(),
		a.mvdirCommand(),
		a.treeCommand(),
		a.lsCommand(),
		a.findCommand(),
		a.archiveCommand(),
		a.putCommand(),
		a.getCommand(),
		a.renameCommand(),
		a.mvCommand(),
		a.rmCommand(),
		versionCommand(),
	)

	return root
}

// Execute runs the CLI with os.Args. Interrupts cancel the command
// context, which stops the server and any running walk.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.envFile != "" {
		// A missing .env is normal; the environment is used as is.
		if err := godotenv.Load(a.envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", a.envFile, err)
		}
	}

	path := a.configPath
	if path == "" {
		path = os.Getenv(config.FileEnv)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if a.base != "" {
		cfg.Vault.BaseDir = a.base
	}
	a.cfg = cfg

	if cmd.Name() == "serve" {
		logger, err := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)
		if err != nil {
			return err
		}
		a.logger = logger
	} else {
		a.logger = a.commandLogger()
	}

	a.vault = vault.New(cfg.Vault.BaseDir,
		vault.WithLogger(a.logger.Logger),
		vault.WithMaxTreeDepth(cfg.Vault.MaxTreeDepth),
	)
	return nil
}

// commandLogger keeps one-shot commands quiet unless asked otherwise;
// stdout is reserved for command output.
func (a *app) commandLogger() *logging.Logger {
	if !a.verbose {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Config{
		Level:       "debug",
		Development: true,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// printJSON writes v as indented JSON with sorted keys.
func printJSON(w io.Writer, v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func (a *app) printPath(cmd *cobra.Command, resolved string) error {
	return printJSON(cmd.OutOrStdout(), map[string]string{"path": a.vault.Rel(resolved)})
}

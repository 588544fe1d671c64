// Public domain.

// Package dsprog is the dstar command.
package dsprog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/soniakeys/exit"
	"github.com/spf13/cobra"

	"github.com/soniakeys/dstar/internal/config"
)

const versionString = "dstar version 0.1 Go source."
const copyrightString = "Public domain."

// Main runs the command line in os.Args and exits non-zero on failure.
func Main() {
	defer exit.Handler()
	if err := Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		exit.Log(err)
	}
}

// Execute runs the command line args.  Reduced tables go to stdout unless
// redirected with --out; statistics, diagnostics and logs go to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

type app struct {
	stdout, stderr io.Writer

	// persistent flags
	configFile string
	logLevel   string
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "dstar",
		Short: "Reduce double star measurements",
		Long: `Dstar reduces tables of double star measurements.  Raw pixel and
instrument angle measures are calibrated to arcseconds and degrees, the
180° position angle ambiguity is resolved, redundant measurements of one
epoch are merged, and objects are cross referenced with the WDS and
Hipparcos catalogs.  The reduced table is written in the input format.`,
		Version:       versionString,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(versionString + "\n" + copyrightString + "\n")
	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "",
		"configuration file (default "+config.DefaultFile+")")
	pf.StringVar(&a.logLevel, "log-level", "",
		"log level: debug, info, warn, error")

	root.AddCommand(
		a.reduceCommand(),
		a.calibCommand(),
		a.fetchCommand(),
		a.configCommand(),
		a.versionCommand(),
	)
	return root
}

// loadConfig reads the configuration and applies the persistent flags.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, _, _, err := config.Load(a.configFile)
	if err != nil {
		return nil, err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := cfg.Finish(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and copyright",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(a.stdout, versionString)
			fmt.Fprintln(a.stdout, copyrightString)
		},
	}
}

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or show the configuration",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write a sample configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultFile
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s exists, use --force to replace it", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "wrote", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "replace an existing file")
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			s, err := cfg.Encode()
			if err != nil {
				return err
			}
			_, err = io.WriteString(a.stdout, s)
			return err
		},
	}
	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

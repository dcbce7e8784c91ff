package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"commitscope/internal/app"
	"commitscope/internal/commit"
	"commitscope/internal/config"
)

type ExitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if ex, ok := err.(ExitCoder); ok {
			os.Exit(ex.ExitCode())
		}
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	dir        string
	logLevel   string
	jsonOutput bool
}

type serviceFactory func(tolerateConfig bool) (*app.Service, error)

func newRootCmd() *cobra.Command {
	var flags globalFlags

	newSvc := func(tolerateConfig bool) (*app.Service, error) {
		return app.New(app.Options{
			Dir:                  flags.dir,
			ConfigPath:           flags.configPath,
			LogLevel:             flags.logLevel,
			TolerateConfigErrors: tolerateConfig,
		})
	}

	cmd := &cobra.Command{
		Use:           "commitscope",
		Short:         "Suggest conventional-commit scopes from the packages a commit touches",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")
	cmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", "", "run as if started in this directory")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	cmd.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "output JSON")

	cmd.AddCommand(newSuggestCmd(newSvc, &flags.jsonOutput))
	cmd.AddCommand(newScopesCmd(newSvc, &flags.jsonOutput))
	cmd.AddCommand(newHookCmd(newSvc, &flags.jsonOutput))
	cmd.AddCommand(newPackagesCmd(newSvc, &flags.jsonOutput))
	cmd.AddCommand(newTypesCmd(newSvc, &flags.jsonOutput))
	cmd.AddCommand(newConfigCmd(newSvc, &flags.jsonOutput))
	cmd.AddCommand(newDoctorCmd(newSvc, &flags.jsonOutput))
	cmd.AddCommand(newVersionCmd(&flags.jsonOutput))

	return cmd
}

func newSuggestCmd(newSvc serviceFactory, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "suggest [type-hint]",
		Aliases: []string{"s"},
		Short:   "Print the suggested commit header for the staged changes",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hint := ""
			if len(args) == 1 {
				hint = args[0]
			}
			svc, err := newSvc(false)
			if err != nil {
				return err
			}
			defer svc.Close()
			sg, err := svc.Suggest(hint)
			if err != nil {
				return hintError(err)
			}
			return print(*jsonOutput, sg, sg.Message)
		},
	}
}

func newScopesCmd(newSvc serviceFactory, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "scopes [path...]",
		Short: "Print the scopes owning the given paths, or the staged changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc(false)
			if err != nil {
				return err
			}
			defer svc.Close()
			var scopes []string
			if len(args) > 0 {
				scopes, err = svc.CommitScopes(args)
			} else {
				scopes, err = svc.StagedScopes()
			}
			if err != nil {
				return err
			}
			return print(*jsonOutput, scopes, strings.Join(scopes, ","))
		},
	}
}

func newHookCmd(newSvc serviceFactory, jsonOutput *bool) *cobra.Command {
	var strict bool
	hookCmd := &cobra.Command{
		Use:   "hook <commit-msg-file> [source] [sha]",
		Short: "prepare-commit-msg entry point: add scopes to the commit message",
		Long: "Rewrites the commit message file git passes to prepare-commit-msg.\n" +
			"Without a source the header \"chore(<scopes>):\" is prepended; with source\n" +
			"\"message\" an existing \"<type>:\" prefix gains the scopes. Other sources are\n" +
			"left untouched. Failures are reported but do not abort the commit unless --strict.",
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) > 1 {
				source = args[1]
			}
			run := func() error {
				svc, err := newSvc(true)
				if err != nil {
					return err
				}
				defer svc.Close()
				_, err = svc.PrepareCommitMessage(args[0], source)
				return err
			}
			if err := run(); err != nil {
				if strict {
					return err
				}
				fmt.Fprintln(os.Stderr, "commitscope: scopes skipped:", err)
			}
			return nil
		},
	}
	hookCmd.Flags().BoolVar(&strict, "strict", false, "fail the commit when scopes cannot be resolved")

	var force bool
	var command string
	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install the prepare-commit-msg hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc(true)
			if err != nil {
				return err
			}
			defer svc.Close()
			if command == "" {
				command = selfCommand()
			}
			path, err := svc.InstallHook(command, force)
			if err != nil {
				return err
			}
			return print(*jsonOutput, map[string]string{"installed": path}, "installed "+path)
		},
	}
	installCmd.Flags().BoolVar(&force, "force", false, "replace a hook not written by commitscope")
	installCmd.Flags().StringVar(&command, "command", "", "command the hook runs (default: this executable)")

	uninstallCmd := &cobra.Command{
		Use:     "uninstall",
		Aliases: []string{"remove", "rm"},
		Short:   "Remove the prepare-commit-msg hook",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc(true)
			if err != nil {
				return err
			}
			defer svc.Close()
			removed, err := svc.UninstallHook()
			if err != nil {
				return err
			}
			msg := "no hook installed"
			if removed {
				msg = "removed prepare-commit-msg hook"
			}
			return print(*jsonOutput, map[string]bool{"removed": removed}, msg)
		},
	}

	hookCmd.AddCommand(installCmd, uninstallCmd)
	return hookCmd
}

func newPackagesCmd(newSvc serviceFactory, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "packages",
		Aliases: []string{"pkgs", "ls"},
		Short:   "List the packages scopes can resolve to",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc(false)
			if err != nil {
				return err
			}
			defer svc.Close()
			pkgs, err := svc.Packages()
			if err != nil {
				return err
			}
			if *jsonOutput {
				return print(true, pkgs, "")
			}
			if !svc.Monorepo.Configured() {
				fmt.Println("no monorepo configured")
				return nil
			}
			if len(pkgs) == 0 {
				fmt.Println("no packages found")
				return nil
			}
			for _, p := range pkgs {
				fmt.Printf("- %s (%s) %s\n", p.Name, p.Declared, p.Dir)
			}
			return nil
		},
	}
}

func newTypesCmd(newSvc serviceFactory, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List commit type hints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := commit.DefaultTable()
			// Aliases come from the repository config when run inside one.
			if svc, err := newSvc(false); err == nil {
				table = svc.Types
				svc.Close()
			}
			hints := table.Hints()
			if *jsonOutput {
				return print(true, hints, "")
			}
			for _, h := range hints {
				fmt.Printf("%-8s %s\n", h.Hint, h.Type)
			}
			return nil
		},
	}
}

func newConfigCmd(newSvc serviceFactory, jsonOutput *bool) *cobra.Command {
	configCmd := &cobra.Command{Use: "config", Short: "Inspect or create configuration"}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc(false)
			if err != nil {
				return err
			}
			defer svc.Close()
			if *jsonOutput {
				return print(true, map[string]any{"path": svc.ConfigPath, "config": svc.Config}, "")
			}
			path := svc.ConfigPath
			if path == "" {
				path = "(defaults)"
			}
			fmt.Printf("config: %s\n", path)
			fmt.Printf("logging: level=%s format=%s\n", svc.Config.Logging.Level, svc.Config.Logging.Format)
			fmt.Printf("resolve: policy=%s unresolved_name=%s cache=%v\n",
				svc.Config.Resolve.Policy, svc.Config.Resolve.UnresolvedName, svc.Config.Resolve.CacheManifests)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .commitscope.toml at the repository root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc(true)
			if err != nil {
				return err
			}
			defer svc.Close()
			path := config.RepoConfigPath(svc.Root)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("CFG_EXISTS: %s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			return print(*jsonOutput, map[string]string{"written": path}, "wrote "+path)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	configCmd.AddCommand(showCmd, initCmd)
	return configCmd
}

func newDoctorCmd(newSvc serviceFactory, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check repository, monorepo and hook setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc(true)
			if err != nil {
				return err
			}
			defer svc.Close()
			report := svc.Doctor()
			if *jsonOutput {
				if err := print(true, report, ""); err != nil {
					return err
				}
			} else {
				fmt.Printf("root: %s\n", report.Root)
				fmt.Printf("monorepo: %s", report.Monorepo)
				if report.Descriptor != "" {
					fmt.Printf(" (%s: %s)", report.Descriptor, strings.Join(report.Patterns, ", "))
				}
				fmt.Printf("\npackages: %d\nhook: %s\n", report.Packages, report.Hook)
				for _, f := range report.Findings {
					fmt.Printf("[%s] %s: %s\n", f.Level, f.Code, f.Message)
				}
			}
			if !report.Healthy {
				return &exitError{code: 1, msg: "DOC_UNHEALTHY: doctor found errors"}
			}
			return nil
		},
	}
}

// hintError maps an unknown type hint to exit code 2 so editor plugins can
// tell a usage mistake from a repository failure.
func hintError(err error) error {
	if errors.Is(err, commit.ErrUnknownTypeHint) {
		return &exitError{code: 2, msg: fmt.Sprintf("TYPE_HINT: %v (run 'commitscope types')", err)}
	}
	return err
}

func selfCommand() string {
	exe, err := os.Executable()
	if err != nil || exe == "" {
		return "commitscope"
	}
	return exe
}

func print(jsonOutput bool, payload any, message string) error {
	if jsonOutput {
		blob, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(blob))
		return nil
	}
	if message != "" {
		fmt.Println(message)
	}
	return nil
}

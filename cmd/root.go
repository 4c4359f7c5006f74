// Package cmd provides the root command and CLI setup for jsdelta.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"jsdelta.dev/pkg/jsdelta/internal/adapter"
	"jsdelta.dev/pkg/jsdelta/internal/controller"
	"jsdelta.dev/pkg/jsdelta/internal/domain"
	m "jsdelta.dev/pkg/jsdelta/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var fileAdapter adapter.SourceFileAdapter
var transformAdapter adapter.TransformAdapter
var commandRunner adapter.CommandRunnerAdapter
var reportStore adapter.ReportStore
var reducer domain.Reducer
var directoryReducer domain.DirectoryReducer
var workflow domain.Workflow
var ui controller.UI

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	fileAdapter = adapter.NewLocalSourceFileAdapter()
	transformAdapter = adapter.NewESBuildTransformAdapter()
	commandRunner = adapter.NewLocalCommandRunnerAdapter()
	reportStore = adapter.NewReportStore()
	reducer = domain.NewReducer(fsAdapter, fileAdapter, transformAdapter, ui)
	directoryReducer = domain.NewDirectoryReducer(fsAdapter, ui, reducer)
	workflow = domain.NewWorkflow(
		fsAdapter,
		commandRunner,
		reportStore,
		ui,
		reducer,
		directoryReducer,
	)
}

const rootLongDescription = `jsdelta shrinks a JavaScript or JSON file while it stays "interesting".

A candidate is interesting when the check says so:
  --cmd CMD          run "CMD candidate"; with --errmsg/--msg the output must
                     contain the text, otherwise a non-zero exit is enough
  PREDICATE ARGS...  run "PREDICATE ARGS... candidate"; exit status 0 means
                     interesting

With --dir the whole directory is reduced around FILE, which is then taken
relative to the directory.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jsdelta [flags] FILE [PREDICATE [ARGS...]]",
		Short: "Syntax-aware test-case minimizer for JavaScript and JSON",
		Long:  rootLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}

			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

			return workflow.Reduce(cmd.Context(), domain.ReduceArgs{
				Options: optionsFromConfig(args),
			})
		},
	}

	// Everything after FILE belongs to the predicate.
	cmd.Flags().SetInterspersed(false)

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.BoolP(quickFlagName, "q", viper.GetBool(quickFlagName), "only remove list elements and statements")
	bindFlagToConfig(flags.Lookup(quickFlagName), quickFlagName)

	flags.Bool(noFixpointFlagName, viper.GetBool(noFixpointFlagName), "run a single reduction pass")
	bindFlagToConfig(flags.Lookup(noFixpointFlagName), noFixpointFlagName)

	flags.Bool(optimizeFlagName, viper.GetBool(optimizeFlagName), "also try minifying transformations on code")
	bindFlagToConfig(flags.Lookup(optimizeFlagName), optimizeFlagName)

	flags.String(cmdFlagName, "", "shell command that checks a candidate")
	bindFlagToConfig(flags.Lookup(cmdFlagName), cmdFlagName)

	flags.String(errmsgFlagName, "", "candidate is interesting when stderr contains this text")
	bindFlagToConfig(flags.Lookup(errmsgFlagName), errmsgFlagName)

	flags.String(msgFlagName, "", "candidate is interesting when stdout or stderr contains this text")
	bindFlagToConfig(flags.Lookup(msgFlagName), msgFlagName)

	flags.String(recordFlagName, "", "record every verdict to this file")
	bindFlagToConfig(flags.Lookup(recordFlagName), recordFlagName)

	flags.String(replayFlagName, "", "replay verdicts from a recorded file instead of running a check")
	bindFlagToConfig(flags.Lookup(replayFlagName), replayFlagName)

	flags.String(dirFlagName, "", "reduce this directory, FILE being the entry file inside it")
	bindFlagToConfig(flags.Lookup(dirFlagName), dirFlagName)

	flags.StringP(outFlagName, "o", "", "copy the result here")
	bindFlagToConfig(flags.Lookup(outFlagName), outFlagName)

	flags.Duration(timeoutFlagName, viper.GetDuration(timeoutFlagName), "time limit for a single check (0 means none)")
	bindFlagToConfig(flags.Lookup(timeoutFlagName), timeoutFlagName)

	flags.Bool(timeoutInterestingFlagName, viper.GetBool(timeoutInterestingFlagName), "count a timed out check as interesting")
	bindFlagToConfig(flags.Lookup(timeoutInterestingFlagName), timeoutInterestingFlagName)

	flags.Int(cacheSizeFlagName, viper.GetInt(cacheSizeConfigKey), "number of verdicts cached by candidate content (0 disables)")
	bindFlagToConfig(flags.Lookup(cacheSizeFlagName), cacheSizeConfigKey)

	flags.BoolP(verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.String(logFileFlagName, viper.GetString(logFilenameKey), "log file")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// optionsFromConfig builds the run options from the positional arguments
// and the resolved configuration.
func optionsFromConfig(args []string) m.Options {
	opts := m.Options{
		File:               m.Path(args[0]),
		Dir:                m.Path(viper.GetString(dirFlagName)),
		Out:                m.Path(viper.GetString(outFlagName)),
		Quick:              viper.GetBool(quickFlagName),
		NoFixpoint:         viper.GetBool(noFixpointFlagName),
		Optimize:           viper.GetBool(optimizeFlagName),
		Command:            viper.GetString(cmdFlagName),
		ErrMsg:             viper.GetString(errmsgFlagName),
		Msg:                viper.GetString(msgFlagName),
		Record:             m.Path(viper.GetString(recordFlagName)),
		Replay:             m.Path(viper.GetString(replayFlagName)),
		Timeout:            viper.GetDuration(timeoutFlagName),
		TimeoutInteresting: viper.GetBool(timeoutInterestingFlagName),
		CacheSize:          viper.GetInt(cacheSizeConfigKey),
	}

	if len(args) > 1 {
		opts.Predicate = args[1]
		opts.PredicateArgs = args[2:]
	}

	return opts
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

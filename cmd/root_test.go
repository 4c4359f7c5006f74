package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"jsdelta.dev/pkg/jsdelta/internal/domain"
	domainmocks "jsdelta.dev/pkg/jsdelta/internal/domain/mocks"
	m "jsdelta.dev/pkg/jsdelta/internal/model"
)

func runRoot(t *testing.T, args ...string) (*domainmocks.MockWorkflow, *cobra.Command) {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	originalWorkflow := workflow
	workflow = mockWorkflow
	t.Cleanup(func() { workflow = originalWorkflow })

	t.Setenv("JSDELTA_LOG_FILENAME", filepath.Join(t.TempDir(), "jsdelta.log"))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	return mockWorkflow, cmd
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "jsdelta [flags] FILE [PREDICATE [ARGS...]]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, rootLongDescription, cmd.Long)
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd := newRootCmd()
	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{})
	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, output.String(), "Usage:")
	assert.Contains(t, output.String(), "--errmsg")
}

func TestRootCmd_CommandOracleOptions(t *testing.T) {
	mockWorkflow, cmd := runRoot(t,
		"--cmd", "node", "--errmsg", "TypeError", "-q", "--no-fixpoint",
		"--timeout", "5s", "--cache-size", "16", "crash.js",
	)

	mockWorkflow.EXPECT().Reduce(mock.Anything, mock.MatchedBy(func(args domain.ReduceArgs) bool {
		opts := args.Options

		return opts.File == m.Path("crash.js") &&
			opts.Command == "node" &&
			opts.ErrMsg == "TypeError" &&
			opts.Quick &&
			!opts.Fixpoint() &&
			opts.Timeout == 5*time.Second &&
			opts.CacheSize == 16 &&
			opts.Predicate == ""
	})).Return(nil).Once()

	require.NoError(t, cmd.Execute())
}

func TestRootCmd_PredicateArgsAreNotFlags(t *testing.T) {
	mockWorkflow, cmd := runRoot(t, "--optimize", "input.js", "./check.sh", "--strict", "-x")

	mockWorkflow.EXPECT().Reduce(mock.Anything, mock.MatchedBy(func(args domain.ReduceArgs) bool {
		opts := args.Options

		return opts.File == m.Path("input.js") &&
			opts.Optimize &&
			opts.Predicate == "./check.sh" &&
			assert.ObjectsAreEqual([]string{"--strict", "-x"}, opts.PredicateArgs)
	})).Return(nil).Once()

	require.NoError(t, cmd.Execute())
}

func TestRootCmd_DirectoryMode(t *testing.T) {
	mockWorkflow, cmd := runRoot(t, "--dir", "project", "--out", "reduced", "--replay", "verdicts.log", "main.js")

	mockWorkflow.EXPECT().Reduce(mock.Anything, mock.MatchedBy(func(args domain.ReduceArgs) bool {
		opts := args.Options

		return opts.MultiFile() &&
			opts.Dir == m.Path("project") &&
			opts.Out == m.Path("reduced") &&
			opts.Replay == m.Path("verdicts.log") &&
			opts.CacheSize == defaultCacheSize
	})).Return(nil).Once()

	require.NoError(t, cmd.Execute())
}

func TestRootCmd_PropagatesWorkflowError(t *testing.T) {
	mockWorkflow, cmd := runRoot(t, "--cmd", "node", "a.js")

	mockWorkflow.EXPECT().Reduce(mock.Anything, mock.Anything).Return(domain.ErrOriginalNotInteresting).Once()

	err := cmd.Execute()
	require.ErrorIs(t, err, domain.ErrOriginalNotInteresting)
}

func TestOptionsFromConfig_PositionalOnly(t *testing.T) {
	opts := optionsFromConfig([]string{"a.js"})
	assert.Equal(t, m.Path("a.js"), opts.File)
	assert.Empty(t, opts.Predicate)
	assert.Empty(t, opts.PredicateArgs)
}

func TestInit(t *testing.T) {
	// Test that init() created all the necessary instances
	assert.NotNil(t, ui)
	assert.NotNil(t, fsAdapter)
	assert.NotNil(t, fileAdapter)
	assert.NotNil(t, transformAdapter)
	assert.NotNil(t, commandRunner)
	assert.NotNil(t, reportStore)
	assert.NotNil(t, reducer)
	assert.NotNil(t, directoryReducer)
	assert.NotNil(t, workflow)
}

func TestExecute_WithError(t *testing.T) {
	// Save original rootCmd
	originalRootCmd := rootCmd
	defer func() {
		rootCmd = originalRootCmd
	}()

	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("command failed")
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})

	rootCmd = mockCmd

	// Execute would call os.Exit(1), so only the command itself is checked here
	err := rootCmd.Execute()
	require.Error(t, err)
}

func TestExecute_ProcessLevel_Success(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS") == "1" {
		originalRootCmd := rootCmd
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Println("success")
				return nil
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd
		defer func() { rootCmd = originalRootCmd }()

		Execute()
		return
	}

	// Parent process: spawn subprocess
	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Success")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS=1")
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, string(output), "success")
}

func TestExecute_ProcessLevel_Failure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS_FAIL") == "1" {
		originalRootCmd := rootCmd
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(os.Stderr, "error occurred")
				return fmt.Errorf("command failed")
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd
		defer func() { rootCmd = originalRootCmd }()

		Execute() // This should call os.Exit(1)
		return
	}

	// Parent process: spawn subprocess
	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Failure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS_FAIL=1")
	output, err := cmd.CombinedOutput()

	require.Error(t, err)

	if exitErr, ok := err.(*exec.ExitError); ok {
		assert.Equal(t, 1, exitErr.ExitCode())
	} else {
		assert.Fail(t, "expected exec.ExitError", "got %T", err)
	}

	assert.Contains(t, string(output), "error occurred")
}

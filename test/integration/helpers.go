//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	APIEndpoint    string
	ClientID       string
	ClientSecret   string
	Scopes         string
	TestEndpointID string
	GridwayPath    string
	Verbose        bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIEndpoint:    os.Getenv("GRIDWAY_API"),
		ClientID:       os.Getenv("GRIDWAY_CLIENT_ID"),
		ClientSecret:   os.Getenv("GRIDWAY_CLIENT_SECRET"),
		Scopes:         os.Getenv("GRIDWAY_SCOPES"),
		TestEndpointID: os.Getenv("GRIDWAY_TEST_ENDPOINT_ID"),
		GridwayPath:    getGridwayPath(),
		Verbose:        os.Getenv("GRIDWAY_TEST_VERBOSE") == "true",
	}
}

// getGridwayPath determines the path to the gridway binary
func getGridwayPath() string {
	if path := os.Getenv("GRIDWAY_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../gridway",
		"./gridway",
		"../gridway",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "gridway" // Fallback to PATH
}

// SkipIfMissingConfig skips the test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	if config.APIEndpoint == "" {
		t.Skip("GRIDWAY_API not set, skipping integration test")
	}

	if config.ClientID == "" || config.ClientSecret == "" {
		t.Skip("GRIDWAY_CLIENT_ID/GRIDWAY_CLIENT_SECRET not set, skipping integration test")
	}

	if _, err := os.Stat(config.GridwayPath); os.IsNotExist(err) {
		t.Skipf("gridway binary not found at %s, skipping integration test", config.GridwayPath)
	}
}

// CommandRunner provides utilities for running gridway commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes a gridway command with the test credentials and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.GridwayPath, args...)
	cmd.Env = append(os.Environ(),
		"GRIDWAY_API="+runner.config.APIEndpoint,
		"GRIDWAY_CLIENT_ID="+runner.config.ClientID,
		"GRIDWAY_CLIENT_SECRET="+runner.config.ClientSecret,
		"GRIDWAY_SCOPES="+runner.config.Scopes,
	)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.GridwayPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// CleanupBookmark attempts to delete a test bookmark by ID
func (runner *CommandRunner) CleanupBookmark(bookmarkID string) {
	stdout, stderr, err := runner.Run("bookmarks", "delete", bookmarkID)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for bookmark %s: %s\nStderr: %s", bookmarkID, stdout, stderr)
	}
}

// AssertJSONOutput verifies output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	var v interface{}
	if err := json.Unmarshal([]byte(output), &v); err != nil {
		t.Errorf("Output is not valid JSON: %v\nOutput: %s", err, output)
	}
}

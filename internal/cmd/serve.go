package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/hargabyte/doxir/internal/config"
	"github.com/hargabyte/doxir/internal/logger"
	"github.com/hargabyte/doxir/internal/mcp"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

Agents can extract and check headers through MCP tools instead of spawning
CLI commands. The server uses the same configuration and IR cache as the
CLI. Tool results are JSON unless --format yaml is given.

Available Tools:
  doxir_extract          IR for a HeaderDoc XML file
  doxir_extract_markup   IR for inline HeaderDoc XML
  doxir_check            Every problem in a HeaderDoc XML file
  doxir_rules            The numbered attribute rules`,
	Example: `  doxir serve                          # Start with all tools
  doxir serve --tools extract,rules    # Start with specific tools only
  doxir serve --timeout 30m            # Auto-stop after 30 minutes idle
  doxir serve --status                 # Check if server is running
  doxir serve --stop                   # Stop running server
  doxir serve --list-tools             # Show available tools`,
	RunE: runServe,
}

var (
	serveTools     string
	serveTimeout   string
	serveStatus    bool
	serveStop      bool
	serveListTools bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveTools, "tools", "", "Comma-separated list of tools to expose (default: all)")
	serveCmd.Flags().StringVar(&serveTimeout, "timeout", "30m", "Inactivity timeout (0 for no timeout)")
	serveCmd.Flags().BoolVar(&serveStatus, "status", false, "Check if server is running")
	serveCmd.Flags().BoolVar(&serveStop, "stop", false, "Stop running server")
	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "List available tools")
}

func runServe(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	if serveListTools {
		fmt.Fprintln(w, "Available MCP tools:")
		for _, t := range mcp.AllTools {
			fmt.Fprintf(w, "  %s\n", t)
		}
		return nil
	}
	if serveStatus {
		return checkServerStatus(cmd)
	}
	if serveStop {
		return stopServer(cmd)
	}

	timeout, err := parseDuration(serveTimeout)
	if err != nil {
		return errors.Wrap(err, "invalid timeout")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// MCP clients parse tool results, so JSON unless asked otherwise.
	format, err := resolveFormat(cfg)
	if err != nil || outputFormat == "" {
		format = "json"
	}

	c, err := openCache(cfg)
	if err != nil {
		logger.Logger.Warnw("cache unavailable, continuing without it", "error", err)
		c = nil
	}
	defer closeCache(c)

	server, err := mcp.New(mcp.Config{
		Tools:   parseToolList(serveTools),
		Timeout: timeout,
		Options: extractOptions(cfg),
		Cache:   c,
		Format:  format,
		Version: Version,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create MCP server")
	}

	if err := writePIDFile(); err != nil {
		logger.Logger.Warnw("could not write PID file", "error", err)
	}
	defer removePIDFile()

	// Shut down cleanly on SIGINT/SIGTERM; stdout belongs to the protocol.
	go func() {
		<-cmd.Context().Done()
		logger.Logger.Infow("serve: shutting down")
		closeCache(c)
		removePIDFile()
		logger.Sync()
		os.Exit(0)
	}()

	logger.Logger.Infow("serve: starting MCP server", "tools", server.ListTools(), "timeout", timeout)
	return server.ServeStdio()
}

// parseToolList splits --tools, allowing shorthand (extract -> doxir_extract).
func parseToolList(s string) []string {
	var tools []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "doxir_") {
			t = "doxir_" + t
		}
		tools = append(tools, t)
	}
	return tools
}

func parseDuration(s string) (time.Duration, error) {
	if s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func getPIDFilePath() (string, error) {
	dir, err := config.FindConfigDir(".")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "serve.pid"), nil
}

func writePIDFile() error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return err
	}
	return os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func removePIDFile() {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return
	}
	os.Remove(pidPath)
}

// readPID returns the recorded server process, or 0 when none is recorded.
func readPID() int {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return 0
	}
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

func checkServerStatus(cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	pid := readPID()
	if pid == 0 {
		fmt.Fprintln(w, "Status: not running")
		return nil
	}

	// On Unix, FindProcess always succeeds, so we need to send signal 0 to check
	process, err := os.FindProcess(pid)
	if err != nil || process.Signal(syscall.Signal(0)) != nil {
		fmt.Fprintln(w, "Status: not running (stale PID file)")
		removePIDFile()
		return nil
	}

	fmt.Fprintf(w, "Status: running (PID %d)\n", pid)
	return nil
}

func stopServer(cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	pid := readPID()
	if pid == 0 {
		fmt.Fprintln(w, "No server running")
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil || process.Signal(syscall.SIGTERM) != nil {
		removePIDFile()
		fmt.Fprintln(w, "Server already stopped")
		return nil
	}

	fmt.Fprintf(w, "Stopped server (PID %d)\n", pid)
	return nil
}

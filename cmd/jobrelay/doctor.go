package main

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobrelay/internal/config"

	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostic checks on your jobrelay installation",
		Long: `Verifies that jobrelay's configuration, download directory, and bridge
endpoints are correctly set up. Reports pass/fail for each check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			fmt.Printf("jobrelay Doctor v%s\n", version)
			fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

			passed := 0
			failed := 0
			warned := 0

			// 1. Config file exists
			if _, err := os.Stat(cfgPath); err != nil {
				printFail("Config file", fmt.Sprintf("not found at %s", cfgPath))
				failed++
				fmt.Printf("\nRun 'jobrelay init' to create a default configuration.\n")
				return nil
			}
			printPass("Config file", cfgPath)
			passed++

			// 2. Config loads and validates
			cfg, err := config.Load(cfgPath)
			if err != nil {
				printFail("Config validation", err.Error())
				failed++
			} else {
				printPass("Config validation", "valid")
				passed++
			}

			if cfg == nil {
				fmt.Printf("\n%d passed, %d failed\n", passed, failed)
				return nil
			}

			// 3. Telegram token shape
			if cfg.Telegram.Token == "" {
				printFail("Telegram token", "not configured")
				failed++
			} else if !strings.Contains(cfg.Telegram.Token, ":") {
				printWarn("Telegram token", "does not look like a bot token (expected <id>:<secret>)")
				warned++
			} else {
				printPass("Telegram token", "configured")
				passed++
			}

			// 4. Target chat configured
			if cfg.Telegram.TargetChat == "" {
				printFail("Target chat", "not configured")
				failed++
			} else {
				printPass("Target chat", cfg.Telegram.TargetChat)
				passed++
			}

			// 5. Keyword set non-empty
			keywordCount := len(cfg.Keywords.Words)
			if cfg.Keywords.File != "" {
				if _, err := os.Stat(cfg.Keywords.File); err != nil {
					printWarn("Keywords file", fmt.Sprintf("not found: %s", cfg.Keywords.File))
					warned++
				} else {
					printPass("Keywords file", cfg.Keywords.File)
					passed++
				}
			}
			if keywordCount == 0 {
				printWarn("Keywords", "empty list, built-in defaults will be used")
				warned++
			} else {
				printPass("Keywords", fmt.Sprintf("%d configured", keywordCount))
				passed++
			}

			// 6. Download directory writable
			if err := checkWritableDir(cfg.General.DownloadDir); err != nil {
				printFail("Download dir", err.Error())
				failed++
			} else {
				printPass("Download dir", cfg.General.DownloadDir)
				passed++
			}

			// 7. Bridge endpoints reachable
			for name, endpoint := range map[string]string{
				"Bridge text URL": cfg.Bridge.TextURL,
				"Bridge file URL": cfg.Bridge.FileURL,
			} {
				if err := checkEndpoint(endpoint); err != nil {
					printWarn(name, fmt.Sprintf("unreachable: %v (is the bridge running?)", err))
					warned++
				} else {
					printPass(name, endpoint)
					passed++
				}
			}

			// 8. Metrics port available
			if cfg.Metrics.Enabled {
				if err := checkPort(cfg.Metrics.Port); err != nil {
					printWarn("Metrics port", fmt.Sprintf("port %d may be in use: %v", cfg.Metrics.Port, err))
					warned++
				} else {
					printPass("Metrics port", fmt.Sprintf(":%d available", cfg.Metrics.Port))
					passed++
				}
			}

			// 9. Log file writable
			if cfg.General.LogFile != "" {
				if err := os.MkdirAll(filepath.Dir(cfg.General.LogFile), 0o755); err != nil {
					printWarn("Log file", fmt.Sprintf("cannot create log directory: %v", err))
					warned++
				} else {
					printPass("Log file", cfg.General.LogFile)
					passed++
				}
			}

			// Summary
			fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
			fmt.Printf("Results: %d passed, %d warnings, %d failed\n", passed, warned, failed)
			if failed > 0 {
				fmt.Printf("\nPlease fix the failed checks before running jobrelay.\n")
				return fmt.Errorf("%d check(s) failed", failed)
			}
			if warned > 0 {
				fmt.Printf("\njobrelay should work but consider fixing the warnings.\n")
			} else {
				fmt.Printf("\nAll checks passed! jobrelay is ready to run.\n")
			}
			return nil
		},
	}
}

func checkWritableDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create: %v", err)
	}
	probe := filepath.Join(dir, ".doctor_probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("not writable: %v", err)
	}
	os.Remove(probe)
	return nil
}

// checkEndpoint verifies a TCP connection can be opened to the URL's host.
func checkEndpoint(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	host := u.Host
	if u.Port() == "" {
		if u.Scheme == "https" {
			host += ":443"
		} else {
			host += ":80"
		}
	}
	conn, err := net.DialTimeout("tcp", host, 3*time.Second)
	if err != nil {
		return err
	}
	conn.Close()
	return nil
}

func checkPort(port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}
	ln.Close()
	return nil
}

func printPass(check, detail string) {
	fmt.Printf("  [PASS] %-20s %s\n", check, detail)
}

func printFail(check, detail string) {
	fmt.Printf("  [FAIL] %-20s %s\n", check, detail)
}

func printWarn(check, detail string) {
	fmt.Printf("  [WARN] %-20s %s\n", check, detail)
}

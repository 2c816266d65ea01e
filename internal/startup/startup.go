// Package startup registers the daemon as a login item so the mapper is
// resident whenever a session starts. The recorded command line carries the
// run flags active when Enable was called.
package startup

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "gopher-perform"

// Enable registers the current executable, with args, to launch at login.
func Enable(args []string) error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}
	switch runtime.GOOS {
	case "darwin":
		return enableDarwin(execPath, args)
	case "linux":
		return enableLinux(execPath, args)
	case "windows":
		return enableWindows(execPath, args)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Disable removes the login item. Removing an absent item is not an error.
func Disable() error {
	switch runtime.GOOS {
	case "darwin":
		return removeFile(darwinPlistPath())
	case "linux":
		return removeFile(linuxDesktopPath())
	case "windows":
		return disableWindows()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// IsEnabled reports whether a login item is currently registered.
func IsEnabled() bool {
	switch runtime.GOOS {
	case "darwin":
		return fileExists(darwinPlistPath())
	case "linux":
		return fileExists(linuxDesktopPath())
	case "windows":
		return isEnabledWindows()
	default:
		return false
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func removeFile(path string) error {
	if !fileExists(path) {
		return nil
	}
	return os.Remove(path)
}

func writeItem(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// --- darwin ---

func darwinPlistPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Library", "LaunchAgents", "com."+appName+".plist")
}

func enableDarwin(execPath string, args []string) error {
	return writeItem(darwinPlistPath(), launchAgentPlist(execPath, args))
}

func launchAgentPlist(execPath string, args []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "        <string>%s</string>\n", execPath)
	for _, a := range args {
		fmt.Fprintf(&b, "        <string>%s</string>\n", a)
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>com.%s</string>
    <key>ProgramArguments</key>
    <array>
%s    </array>
    <key>RunAtLoad</key>
    <true/>
</dict>
</plist>
`, appName, b.String())
}

// --- linux ---

func linuxDesktopPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "autostart", appName+".desktop")
}

func enableLinux(execPath string, args []string) error {
	return writeItem(linuxDesktopPath(), desktopEntry(execPath, args))
}

func desktopEntry(execPath string, args []string) string {
	cmd := execPath
	if len(args) > 0 {
		cmd += " " + strings.Join(args, " ")
	}
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Exec=%s
Hidden=false
NoDisplay=false
X-GNOME-Autostart-enabled=true
`, appName, cmd)
}

// --- windows ---

const windowsRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func enableWindows(execPath string, args []string) error {
	cmd := execPath
	if len(args) > 0 {
		cmd += " " + strings.Join(args, " ")
	}
	return exec.Command("reg", "add", windowsRunKey,
		"/v", appName, "/t", "REG_SZ", "/d", cmd, "/f").Run()
}

func disableWindows() error {
	out, err := exec.Command("reg", "delete", windowsRunKey,
		"/v", appName, "/f").CombinedOutput()
	if err != nil && !strings.Contains(string(out), "unable to find") {
		return err
	}
	return nil
}

func isEnabledWindows() bool {
	return exec.Command("reg", "query", windowsRunKey, "/v", appName).Run() == nil
}

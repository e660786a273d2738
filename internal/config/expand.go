package config

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax - just ~ for the current user.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}

// Expand replaces variables in a string with their values.
// Supported variables:
//   - ${HOME} - user's home directory
//   - ${USER} - current username
//   - ${AFD_MON_WORK_DIR} - the environment override for the work dir
func Expand(s string) string {
	if s == "" {
		return s
	}

	result := s

	if strings.Contains(result, "${HOME}") {
		if home, err := os.UserHomeDir(); err == nil {
			result = strings.ReplaceAll(result, "${HOME}", home)
		}
	}

	if strings.Contains(result, "${USER}") {
		result = strings.ReplaceAll(result, "${USER}", getUser())
	}

	if strings.Contains(result, "${AFD_MON_WORK_DIR}") {
		result = strings.ReplaceAll(result, "${AFD_MON_WORK_DIR}", os.Getenv("AFD_MON_WORK_DIR"))
	}

	return result
}

// getUser returns the current username.
func getUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

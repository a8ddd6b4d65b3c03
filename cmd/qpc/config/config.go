// Package config manages the locally persisted client state for qpc: the
// server connection settings and the session token.
//
// Two files live under the user config directory (<config-base>/qpc, created
// 0700 on demand):
//   - server.config: JSON object {host, port, use_http, ssl_verify}
//   - client_token:  the raw bearer token, mode 0600, deleted on logout
//
// The data directory (<cache-base>/qpc) holds qpc.log for the logging sink.
// Both base directories follow the platform convention and honor the
// standard environment overrides through os.UserConfigDir/os.UserCacheDir.
//
// Readers are deliberately forgiving: an absent, unparseable, or mistyped
// server.config reads as "server not configured" with the cause logged at
// WARN, so a corrupted file never wedges the CLI. Writers go through a
// write-then-rename so a concurrent reader can never observe a torn file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/quipucords/qpc/internal/logging"
)

const (
	serverConfigFile = "server.config"
	tokenFile        = "client_token"

	// DefaultPort is the conventional quipucords server port.
	DefaultPort = 9443
)

// ServerConfig holds the persisted server connection settings.
type ServerConfig struct {
	Host      string  `json:"host"`
	Port      int     `json:"port"`
	UseHTTP   bool    `json:"use_http"`
	SSLVerify *string `json:"ssl_verify"`
}

// URL returns the base server URL, defaulting the scheme to https.
func (c *ServerConfig) URL() string {
	scheme := "https"
	if c.UseHTTP {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.Host, c.Port)
}

// configDir and dataDir are variables so tests can point the store at a
// temporary directory.
var (
	configDir = defaultConfigDir()
	dataDir   = defaultDataDir()
)

func defaultConfigDir() string {
	d, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(d, "qpc")
}

func defaultDataDir() string {
	d, err := os.UserCacheDir()
	if err != nil {
		return "."
	}
	return filepath.Join(d, "qpc")
}

// SetConfigDir overrides the config directory location. Tests only.
func SetConfigDir(dir string) {
	configDir = dir
}

// SetDataDir overrides the data directory location. Tests only.
func SetDataDir(dir string) {
	dataDir = dir
}

// LogFilePath returns the location of the append-only CLI log file.
func LogFilePath() string {
	return filepath.Join(dataDir, "qpc.log")
}

// EnsureDirs creates the config and data directories (mode 0700) if absent.
// Called by the dispatcher before any command runs.
func EnsureDirs() error {
	for _, dir := range []string{configDir, dataDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errors.Wrapf(err, "creating directory %s", dir)
		}
	}
	return nil
}

// ReadServerConfig returns the persisted server settings, or nil when the
// file is absent, unparseable, or missing required keys. Callers treat any
// nil as "server not configured"; the distinction between the cases is
// visible only in the WARN log.
func ReadServerConfig() *ServerConfig {
	path := filepath.Join(configDir, serverConfigFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("cannot read %s: %v", path, err)
		}
		return nil
	}

	// Decode into a generic map first so a wrong-typed host or port reads
	// as unconfigured instead of a zero value.
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		logging.Warn("cannot parse %s: %v", path, err)
		return nil
	}

	host, ok := raw["host"].(string)
	if !ok || strings.TrimSpace(host) == "" {
		logging.Warn("%s is missing a valid host entry", path)
		return nil
	}
	portFloat, ok := raw["port"].(float64)
	if !ok || portFloat != float64(int(portFloat)) {
		logging.Warn("%s is missing a valid port entry", path)
		return nil
	}

	cfg := &ServerConfig{Host: host, Port: int(portFloat)}
	if useHTTP, ok := raw["use_http"].(bool); ok {
		cfg.UseHTTP = useHTTP
	}
	if sslVerify, ok := raw["ssl_verify"].(string); ok && sslVerify != "" {
		cfg.SSLVerify = &sslVerify
	}
	return cfg
}

// WriteServerConfig persists the server settings atomically, creating the
// config directory on demand.
func WriteServerConfig(cfg *ServerConfig) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return errors.Wrapf(err, "creating directory %s", configDir)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding server config")
	}
	return atomicWrite(filepath.Join(configDir, serverConfigFile), data, 0o644)
}

// ServerURL returns scheme://host:port for the configured server, or the
// empty string when no usable configuration exists.
func ServerURL() string {
	cfg := ReadServerConfig()
	if cfg == nil {
		return ""
	}
	return cfg.URL()
}

// ReadToken returns the persisted session token, or the empty string when
// no token is stored or the file cannot be read.
func ReadToken() string {
	data, err := os.ReadFile(filepath.Join(configDir, tokenFile))
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("cannot read token file: %v", err)
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}

// WriteToken persists the session token with mode 0600.
func WriteToken(token string) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return errors.Wrapf(err, "creating directory %s", configDir)
	}
	return atomicWrite(filepath.Join(configDir, tokenFile), []byte(token), 0o600)
}

// DeleteToken removes the persisted session token. Removing an absent token
// is a no-op, so a second logout still succeeds.
func DeleteToken() error {
	err := os.Remove(filepath.Join(configDir, tokenFile))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing token file")
	}
	return nil
}

// atomicWrite writes data to a sibling temp file and renames it into place
// so readers never observe a partially written file.
func atomicWrite(path string, data []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "setting mode on %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "closing %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "renaming into %s", path)
	}
	return nil
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// ConfigHandler routes requests for /api/config to the appropriate
// handler based on the HTTP method.
func ConfigHandler(cfile string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getConfigHandler(w, r, cfile)
		case http.MethodPost:
			setConfigHandler(w, r, cfile)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// getConfigHandler reads the config file and returns the runtime part
// as JSON. The file is read on every request so the answer reflects
// what the next reload will use.
func getConfigHandler(w http.ResponseWriter, _ *http.Request, cfile string) {
	slog.Debug("Handling GET /api/config request")
	fullConfig, err := ReadConfig(cfile)
	if err != nil {
		slog.Error("Failed to read config file for API", "error", err)
		http.Error(w, "Failed to read configuration", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(RuntimeConfig{Lovebox: fullConfig.Lovebox}); err != nil {
		slog.Error("Failed to encode runtime config to JSON", "error", err)
		http.Error(w, "Failed to serialize configuration", http.StatusInternalServerError)
	}
}

// setConfigHandler merges the posted Lovebox settings into the config
// file. The running settings are not touched; the file watcher picks
// up the change and rebuilds the device from the new file.
func setConfigHandler(w http.ResponseWriter, r *http.Request, cfile string) {
	slog.Info("Handling POST /api/config request")
	defer r.Body.Close()

	var newRuntimeConfig RuntimeConfig
	if err := json.NewDecoder(r.Body).Decode(&newRuntimeConfig); err != nil {
		slog.Error("Failed to decode incoming JSON", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	fullConfig, err := ReadConfig(cfile)
	if err != nil {
		slog.Error("Failed to read existing config for update", "error", err)
		http.Error(w, "Failed to read configuration", http.StatusInternalServerError)
		return
	}

	fullConfig.Lovebox = newRuntimeConfig.Lovebox

	if err := fullConfig.Validate(); err != nil {
		slog.Warn("Validation failed for new config", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		http.Error(w, fmt.Sprintf("Invalid configuration: %v", err), status)
		return
	}

	if err := WriteConfig(cfile, fullConfig); err != nil {
		slog.Error("Failed to write updated config file", "error", err)
		http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
		return
	}

	slog.Info("Successfully updated config file, application will reload")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Configuration updated successfully.")
}

// WriteConfig replaces cfile atomically, so the watcher never sees a
// half written file.
func WriteConfig(cfile string, conf *Config) error {
	yamlData, err := yaml.Marshal(conf)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	pendingFile, err := renameio.NewPendingFile(cfile, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending config file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			slog.Debug("Cleanup of pending config file failed", "error", err)
		}
	}()

	if _, err := pendingFile.Write(yamlData); err != nil {
		return fmt.Errorf("write config data: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace config file: %w", err)
	}
	return nil
}

package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// BackupVersion is written to every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all
// application preferences.
type BackupData struct {
	Version    string            `json:"version"`
	CreatedAt  string            `json:"created_at"`
	Config     model.AppConfig   `json:"config"`
	Containers []model.Container `json:"containers"`
}

// ExportAllData writes the config and saved containers to a single JSON file.
func ExportAllData(exportPath string, config model.AppConfig, containers []model.Container) error {
	if containers == nil {
		containers = []model.Container{}
	}
	backup := BackupData{
		Version:    BackupVersion,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Config:     config,
		Containers: containers,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying it.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if err := backup.Config.Settings.Validate(); err != nil {
		return BackupData{}, fmt.Errorf("invalid backup file: %w", err)
	}
	if backup.Config.RecentFiles == nil {
		backup.Config.RecentFiles = []string{}
	}
	if backup.Containers == nil {
		backup.Containers = []model.Container{}
	}
	return backup, nil
}

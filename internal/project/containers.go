package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// DefaultContainersPath returns the default file path for saved containers.
func DefaultContainersPath() string {
	return filepath.Join(DefaultConfigDir(), "containers.json")
}

// SaveContainers saves user-defined containers to a JSON file.
func SaveContainers(path string, containers []model.Container) error {
	for _, c := range containers {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(containers, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadContainers loads user-defined containers from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadContainers(path string) ([]model.Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Container{}, nil
		}
		return nil, err
	}

	var containers []model.Container
	if err := json.Unmarshal(data, &containers); err != nil {
		return nil, fmt.Errorf("failed to parse containers: %w", err)
	}
	if containers == nil {
		containers = []model.Container{}
	}
	return containers, nil
}

// UpsertContainer replaces the container with the same name
// (case-insensitive) or appends it.
func UpsertContainer(containers []model.Container, c model.Container) ([]model.Container, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return containers, errors.New("container has no name")
	}
	if err := c.Validate(); err != nil {
		return containers, err
	}
	for i := range containers {
		if strings.EqualFold(containers[i].Name, c.Name) {
			containers[i] = c
			return containers, nil
		}
	}
	return append(containers, c), nil
}

// RemoveContainer drops the container with the given name.
func RemoveContainer(containers []model.Container, name string) []model.Container {
	out := containers[:0]
	for _, c := range containers {
		if !strings.EqualFold(c.Name, name) {
			out = append(out, c)
		}
	}
	return out
}

// FindContainer looks up a saved container by name.
func FindContainer(containers []model.Container, name string) (model.Container, bool) {
	for _, c := range containers {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return model.Container{}, false
}

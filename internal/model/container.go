package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Container describes the trailer or container envelope (cm, kg).
// Zero values for Length, Height and MaxWeight mean "not configured".
type Container struct {
	Name      string  `json:"name" mapstructure:"name"`
	Length    float64 `json:"length" mapstructure:"length" validate:"gte=0"`
	Width     float64 `json:"width" mapstructure:"width" validate:"gt=0"`
	Height    float64 `json:"height" mapstructure:"height" validate:"gte=0"`
	MaxWeight float64 `json:"max_weight" mapstructure:"max_weight" validate:"gte=0"`
}

// Validate checks the container configuration.
func (c Container) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("container %q: %s", c.Name, describeValidation(err))
	}
	return nil
}

// LengthMeters returns the container length in meters, 0 if unset.
func (c Container) LengthMeters() float64 {
	return c.Length / 100.0
}

// Preset identifiers.
const (
	PresetStandardTrailer = "standard"
	PresetContainer20     = "20ft"
	PresetContainer40     = "40ft"
	PresetCustom          = "custom"
)

// ContainerPreset is a named, selectable container definition.
type ContainerPreset struct {
	Key       string
	Label     string
	Container Container
}

// Built-in container presets.
var ContainerPresets = []ContainerPreset{
	{
		Key:   PresetStandardTrailer,
		Label: "Standard trailer (13.6 m)",
		Container: Container{
			Name: "Standard trailer", Length: 1360, Width: 245, Height: 270, MaxWeight: 24000,
		},
	},
	{
		Key:   PresetContainer20,
		Label: "20ft container",
		Container: Container{
			Name: "20ft container", Length: 590, Width: 235, Height: 239, MaxWeight: 28000,
		},
	},
	{
		Key:   PresetContainer40,
		Label: "40ft container",
		Container: Container{
			Name: "40ft container", Length: 1203, Width: 235, Height: 239, MaxWeight: 26000,
		},
	},
}

// StandardTrailer returns the default trailer envelope.
func StandardTrailer() Container {
	return ContainerPresets[0].Container
}

// GetPreset returns the preset with the given key.
func GetPreset(key string) (ContainerPreset, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, p := range ContainerPresets {
		if p.Key == key {
			return p, true
		}
	}
	return ContainerPreset{}, false
}

// GetPresetLabels returns the preset labels for UI dropdowns, custom last.
func GetPresetLabels() []string {
	labels := make([]string, 0, len(ContainerPresets)+1)
	for _, p := range ContainerPresets {
		labels = append(labels, p.Label)
	}
	return append(labels, "Custom")
}

// ResolveContainer returns the container for a preset key, falling back
// to the custom container when the key is "custom" or unknown.
func ResolveContainer(key string, custom Container) Container {
	if p, ok := GetPreset(key); ok {
		return p.Container
	}
	if custom.Name == "" {
		custom.Name = "Custom"
	}
	return custom
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s must be %s %s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
	}
	return strings.Join(parts, "; ")
}

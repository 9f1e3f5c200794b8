package frontend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// ConfigFileName is looked up at the workspace root.
const ConfigFileName = "fusion.toml"

type LogToml struct {
	File       string `toml:"file"`
	MaxSize    int    `toml:"max_size" validate:"gte=0"`
	MaxBackups int    `toml:"max_backups" validate:"gte=0"`
	MaxAge     int    `toml:"max_age" validate:"gte=0"`
	Compress   bool   `toml:"compress"`
}

type TailwindToml struct {
	Patch    bool   `toml:"patch"`
	Settings string `toml:"settings" validate:"required_if=Patch true"`
	Language string `toml:"language" validate:"required_if=Patch true"`
}

type FusionToml struct {
	EnableGoToDefinition bool         `toml:"enable_go_to_definition"`
	Extension            string       `toml:"extension" validate:"required,startswith=."`
	RespectGitignore     bool         `toml:"respect_gitignore"`
	LookupTimeout        string       `toml:"lookup_timeout" validate:"omitempty,duration"`
	Log                  LogToml      `toml:"log"`
	Tailwind             TailwindToml `toml:"tailwind"`
}

func DefaultFusionToml() FusionToml {
	return FusionToml{
		EnableGoToDefinition: true,
		Extension:            ".fusion",
		LookupTimeout:        "0s",
		Log: LogToml{
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
		Tailwind: TailwindToml{
			Patch:    true,
			Settings: ".vscode/settings.json",
			Language: "html",
		},
	}
}

// Timeout is the per-lookup deadline; zero means none.
func (ft FusionToml) Timeout() time.Duration {
	d, err := time.ParseDuration(ft.LookupTimeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// HandleFusionToml decodes tomlContent on top of the defaults, so absent
// keys keep their default value.
func HandleFusionToml(tomlContent string) (FusionToml, error) {
	ft := DefaultFusionToml()
	_, err := toml.Decode(tomlContent, &ft)
	if err != nil {
		return ft, err
	}
	validate := validator.New()
	if err := validate.RegisterValidation("duration", isDuration); err != nil {
		return ft, err
	}
	if err := validate.Struct(ft); err != nil {
		return ft, err
	}
	return ft, nil
}

func isDuration(fl validator.FieldLevel) bool {
	d, err := time.ParseDuration(fl.Field().String())
	return err == nil && d >= 0
}

// LoadFusionToml reads fusion.toml from workspace. A missing file yields
// the defaults.
func LoadFusionToml(workspace string) (FusionToml, error) {
	content, err := os.ReadFile(filepath.Join(workspace, ConfigFileName))
	if errors.Is(err, os.ErrNotExist) {
		return DefaultFusionToml(), nil
	}
	if err != nil {
		return DefaultFusionToml(), fmt.Errorf("failed to load %s: %w", ConfigFileName, err)
	}
	ft, err := HandleFusionToml(string(content))
	if err != nil {
		return DefaultFusionToml(), fmt.Errorf("failed to load %s: %w", ConfigFileName, err)
	}
	return ft, nil
}

// Package session reads the one-shot bundle handed over by the setup screen:
// who the local participant is and how they look.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"chosenoffset.com/crewmate/internal/world/entity"
)

// DefaultNickname is used when the bundle does not name the participant.
const DefaultNickname = "Guest"

// Environment keys that override the session file.
const (
	EnvNickname = "CREWMATE_NICKNAME"
	EnvHost     = "CREWMATE_HOST"
	EnvColor    = "CREWMATE_COLOR"
)

// Settings is the session configuration bundle.
type Settings struct {
	Nickname string `json:"nickname"`
	IsHost   bool   `json:"isHost"`
	Color    string `json:"color,omitempty"`
}

// Default returns the settings used when nothing was handed over.
func Default() Settings {
	return Settings{Nickname: DefaultNickname}
}

// Load builds the settings from, in increasing precedence, the JSON file at
// path, the dotenv file at envPath and the process environment. Missing
// files are not an error. Empty paths are skipped.
func Load(path, envPath string) (Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return s, fmt.Errorf("failed to read session file: %w", err)
		default:
			if err := json.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("failed to parse session file %s: %w", path, err)
			}
		}
	}

	env := map[string]string{}
	if envPath != "" {
		fileEnv, err := godotenv.Read(envPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return s, fmt.Errorf("failed to read env file %s: %w", envPath, err)
		default:
			env = fileEnv
		}
	}
	for _, key := range []string{EnvNickname, EnvHost, EnvColor} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}

	if err := s.apply(env); err != nil {
		return s, err
	}

	s.Nickname = strings.TrimSpace(s.Nickname)
	if s.Nickname == "" {
		s.Nickname = DefaultNickname
	}
	return s, nil
}

func (s *Settings) apply(env map[string]string) error {
	if v, ok := env[EnvNickname]; ok {
		s.Nickname = v
	}
	if v, ok := env[EnvHost]; ok && v != "" {
		host, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvHost, v, err)
		}
		s.IsHost = host
	}
	if v, ok := env[EnvColor]; ok {
		s.Color = v
	}
	return nil
}

// BodyColor returns the configured color, or the default body color when
// none is set or it cannot be parsed.
func (s Settings) BodyColor() color.RGBA {
	if s.Color == "" {
		return entity.DefaultColor
	}
	c, err := entity.ParseHexColor(s.Color)
	if err != nil {
		log.Printf("Warning: Ignoring session color: %v", err)
		return entity.DefaultColor
	}
	return c
}

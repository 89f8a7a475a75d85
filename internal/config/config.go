package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIKey      string
	BaseURL     string
	TextModel   string
	VisionModel string
	Timezone    string
}

// Load reads configuration from the environment, after loading a .env file
// if one is present in the working directory.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		APIKey:      GetEnv("GOOGLE_API_KEY", ""),
		BaseURL:     GetEnv("LLM_BASE_URL", ""),
		TextModel:   GetEnv("LLM_TEXT_MODEL", "gemini-1.5-flash-latest"),
		VisionModel: GetEnv("LLM_VISION_MODEL", "gemini-1.5-flash-latest"),
		Timezone:    GetEnv("APP_TIMEZONE", "Asia/Tokyo"),
	}
}

func GetEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Profile describes the user for advice prompts. All fields optional.
type Profile struct {
	Age      string   `yaml:"age"`
	Concerns []string `yaml:"concerns"`
	Goals    []string `yaml:"goals"`
	Dislikes []string `yaml:"dislikes"`
}

// LoadProfile reads a profile.yaml. A missing file is not an error;
// it yields an empty profile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return &p, nil
}

// Describe renders the profile as prompt-ready bullet lines.
func (p *Profile) Describe() string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	if p.Age != "" {
		fmt.Fprintf(&b, "- Age: %s\n", p.Age)
	}
	if len(p.Concerns) > 0 {
		fmt.Fprintf(&b, "- Concerns: %s\n", strings.Join(p.Concerns, ", "))
	}
	if len(p.Goals) > 0 {
		fmt.Fprintf(&b, "- Goals: %s\n", strings.Join(p.Goals, ", "))
	}
	if len(p.Dislikes) > 0 {
		fmt.Fprintf(&b, "- Disliked foods: %s\n", strings.Join(p.Dislikes, ", "))
	}
	return b.String()
}

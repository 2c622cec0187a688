package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName        = "rechercheannonces"
	ConfigFileName = "config.json"
)

// Data file names under DataDir.
const (
	JobsFileName     = "jobs.json"
	PreviousFileName = "jobs_previous.json"
	HistoryFileName  = "jobs_history.json"
	AppsFileName     = "applications.json"
	SkillsFileName   = "skills_analysis.json"
)

// SMTPConfig configures the email notifier. The password is only ever read
// from the environment, never persisted.
type SMTPConfig struct {
	Server    string `json:"server"`
	Port      int    `json:"port"`
	Username  string `json:"username"`
	Password  string `json:"-"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
}

// LLMConfig selects the cover-letter backend; empty provider means the
// template path only. The API key comes from the environment.
type LLMConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	BaseURL  string `json:"base_url"`
	APIKey   string `json:"-"`
}

// Profile carries the applicant details substituted into cover letters.
type Profile struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Intro      string `json:"intro"`
	Experience string `json:"experience"`
	CVPath     string `json:"cv_path"`
}

// Config contains the default search settings and the file layout.
type Config struct {
	DataDir         string     `json:"data_dir"`
	LettersDir      string     `json:"letters_dir"`
	DefaultKeywords []string   `json:"default_keywords"`
	DefaultLocation string     `json:"default_location"`
	MaxPages        int        `json:"max_pages"`
	YourSkills      []string   `json:"your_skills"`
	Profile         Profile    `json:"profile"`
	SMTP            SMTPConfig `json:"smtp"`
	LLM             LLMConfig  `json:"llm"`
}

func DefaultConfig() Config {
	return Config{
		DataDir:    envString("RECHERCHE_DATA_DIR", "data"),
		LettersDir: envString("RECHERCHE_LETTERS_DIR", "cover_letters"),
		DefaultKeywords: []string{
			"Data Scientist",
			"Data Analyst",
			"Data Engineer",
			"Machine Learning Engineer",
		},
		DefaultLocation: envString("RECHERCHE_DEFAULT_LOCATION", "Toulouse, France"),
		MaxPages:        envInt("RECHERCHE_MAX_PAGES", 3),
		YourSkills:      splitCSV(envString("RECHERCHE_YOUR_SKILLS", "Python, SQL, Machine Learning")),
		Profile: Profile{
			Name:  envString("RECHERCHE_YOUR_NAME", ""),
			Email: envString("RECHERCHE_EMAIL", ""),
		},
		SMTP: SMTPConfig{
			Server:    envString("RECHERCHE_SMTP_SERVER", "smtp.gmail.com"),
			Port:      envInt("RECHERCHE_SMTP_PORT", 587),
			Username:  envString("RECHERCHE_SMTP_USER", ""),
			Password:  envString("RECHERCHE_SMTP_PASSWORD", ""),
			Sender:    envString("RECHERCHE_EMAIL_SENDER", ""),
			Recipient: envString("RECHERCHE_EMAIL_RECIPIENT", ""),
		},
		LLM: LLMConfig{
			Provider: envString("RECHERCHE_LLM_PROVIDER", ""),
			Model:    envString("RECHERCHE_LLM_MODEL", ""),
			BaseURL:  envString("RECHERCHE_LLM_BASE_URL", ""),
			APIKey:   firstEnv("RECHERCHE_LLM_API_KEY", "OPENAI_API_KEY", "MISTRAL_API_KEY"),
		},
	}
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads the JSON5 config file over the env-seeded defaults. A missing
// file just yields the defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	return loadFrom(path, cfg)
}

func loadFrom(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Init writes the default config.json if it doesn't already exist and
// returns the created paths.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// File layout helpers.

func (c Config) JobsFile() string     { return filepath.Join(c.DataDir, JobsFileName) }
func (c Config) PreviousFile() string { return filepath.Join(c.DataDir, PreviousFileName) }
func (c Config) HistoryFile() string  { return filepath.Join(c.DataDir, HistoryFileName) }
func (c Config) AppsFile() string     { return filepath.Join(c.DataDir, AppsFileName) }
func (c Config) SkillsFile() string   { return filepath.Join(c.DataDir, SkillsFileName) }

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return ""
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

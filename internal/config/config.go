package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Supabase
	SupabaseURL string `yaml:"supabase_url"`
	SupabaseKey string `yaml:"supabase_key"`

	// Gemini
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	// Output
	OutputDir    string `yaml:"output_dir"`
	CSVFilename  string `yaml:"csv_filename"`
	LogLevel     string `yaml:"log_level"`
	LogFile      string `yaml:"log_file"`

	// Deployment mode: read-only file system (Leapcell, AWS Lambda, ...)
	ServerlessMode bool `yaml:"serverless_mode"`

	// Refinement
	NumQuestions int `yaml:"num_questions"`
	BatchSize    int `yaml:"batch_size"`

	// SFTP drop for export artifacts
	SFTPHost                  string `yaml:"sftp_host"`
	SFTPPort                  int    `yaml:"sftp_port"`
	SFTPUser                  string `yaml:"sftp_user"`
	SFTPPass                  string `yaml:"sftp_pass"`
	SFTPDir                   string `yaml:"sftp_dir"`
	SFTPInsecureIgnoreHostKey bool   `yaml:"sftp_insecure_ignore_host_key"`
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		SupabaseURL: os.Getenv("SUPABASE_URL"),
		SupabaseKey: os.Getenv("SUPABASE_KEY"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-2.5-flash-lite"),

		OutputDir:   getenv("OUTPUT_DIR", "data"),
		CSVFilename: getenv("CSV_FILENAME", "colleges_data.csv"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFile:     os.Getenv("LOG_FILE"),

		ServerlessMode: getenvBool("SERVERLESS_MODE", false),

		NumQuestions: getenvInt("NUM_QUESTIONS", 3),
		BatchSize:    getenvInt("BATCH_SIZE", 10),

		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOST_KEY", false),
	}
}

// LoadWithFile loads env config and overlays any non-zero values from an
// optional YAML file. Env vars stay the base so deploys can still override
// single values without editing the file.
func LoadWithFile(path string) (Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(b, &file); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.overlay(file)
	return cfg, nil
}

func (c *Config) overlay(o Config) {
	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setStr(&c.SupabaseURL, o.SupabaseURL)
	setStr(&c.SupabaseKey, o.SupabaseKey)
	setStr(&c.GeminiAPIKey, o.GeminiAPIKey)
	setStr(&c.GeminiModel, o.GeminiModel)
	setStr(&c.OutputDir, o.OutputDir)
	setStr(&c.CSVFilename, o.CSVFilename)
	setStr(&c.LogLevel, o.LogLevel)
	setStr(&c.LogFile, o.LogFile)
	setStr(&c.SFTPHost, o.SFTPHost)
	setStr(&c.SFTPUser, o.SFTPUser)
	setStr(&c.SFTPPass, o.SFTPPass)
	setStr(&c.SFTPDir, o.SFTPDir)

	if o.ServerlessMode {
		c.ServerlessMode = true
	}
	if o.SFTPInsecureIgnoreHostKey {
		c.SFTPInsecureIgnoreHostKey = true
	}
	if o.NumQuestions > 0 {
		c.NumQuestions = o.NumQuestions
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
	if o.SFTPPort > 0 {
		c.SFTPPort = o.SFTPPort
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(k)))
	if v == "" {
		return def
	}
	switch v {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

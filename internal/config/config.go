package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hpungsan/turbobar/internal/capture"
	"github.com/hpungsan/turbobar/internal/notion"
)

// Collections used when none are configured.
const (
	DefaultTasksDBID = "2fa414cc-8377-81f5-bd6a-fca8633835cc"
	DefaultNotesDBID = "be1414cc-8377-82e2-a106-815f50487374"
)

const (
	JSONFileName = "config.json"
	YAMLFileName = "config.yaml"
)

// Config holds application configuration.
type Config struct {
	// NotionToken and GeminiAPIKey are usually supplied through the
	// environment rather than written to disk.
	NotionToken  string `json:"notion_token,omitempty" yaml:"notion_token,omitempty"`
	GeminiAPIKey string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"`

	// TasksDBID and NotesDBID accept dashed or undashed ids or database URLs.
	TasksDBID string `json:"tasks_db_id,omitempty" yaml:"tasks_db_id,omitempty"`
	NotesDBID string `json:"notes_db_id,omitempty" yaml:"notes_db_id,omitempty"`

	DefaultTaskPriority string `json:"default_task_priority,omitempty" yaml:"default_task_priority,omitempty"`
	DefaultTaskNow      bool   `json:"default_task_now,omitempty" yaml:"default_task_now,omitempty"`
	NoteCaptureType     string `json:"note_capture_type,omitempty" yaml:"note_capture_type,omitempty"`

	// AutoOrganize runs classification before every write. nil means true.
	AutoOrganize  *bool  `json:"auto_organize,omitempty" yaml:"auto_organize,omitempty"`
	GeminiModel   string `json:"gemini_model,omitempty" yaml:"gemini_model,omitempty"`
	GeminiBaseURL string `json:"gemini_base_url,omitempty" yaml:"gemini_base_url,omitempty"`
	NotionBaseURL string `json:"notion_base_url,omitempty" yaml:"notion_base_url,omitempty"`

	// TaskPropertyMap and NotePropertyMap override the property each
	// assignment field is written to, keyed by field ("project", "subArea"...).
	// An empty value stops the field from being written.
	TaskPropertyMap map[string]string `json:"task_property_map,omitempty" yaml:"task_property_map,omitempty"`
	NotePropertyMap map[string]string `json:"note_property_map,omitempty" yaml:"note_property_map,omitempty"`

	// SchemaCacheTTLSeconds bounds how long a discovered collection schema is reused.
	SchemaCacheTTLSeconds int `json:"schema_cache_ttl_seconds,omitempty" yaml:"schema_cache_ttl_seconds,omitempty"`

	// RequestTimeoutSeconds caps each outbound Gemini or Notion call. 0 means no timeout.
	RequestTimeoutSeconds int `json:"request_timeout_seconds,omitempty" yaml:"request_timeout_seconds,omitempty"`

	LogLevel     string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFormat    string `json:"log_format,omitempty" yaml:"log_format,omitempty"`
	LogAddSource bool   `json:"log_add_source,omitempty" yaml:"log_add_source,omitempty"`

	ServerBind string `json:"server_bind,omitempty" yaml:"server_bind,omitempty"`
	ServerPort int    `json:"server_port,omitempty" yaml:"server_port,omitempty"`

	// DBMaxOpenConns limits the maximum number of open journal connections.
	// 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty" yaml:"db_max_open_conns,omitempty"`
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty" yaml:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty" yaml:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		TasksDBID:             DefaultTasksDBID,
		NotesDBID:             DefaultNotesDBID,
		DefaultTaskPriority:   capture.PriorityMedium,
		NoteCaptureType:       "Quick",
		GeminiModel:           "gemini-3-flash-preview",
		SchemaCacheTTLSeconds: 300,
		RequestTimeoutSeconds: 60,
		LogLevel:              "info",
		LogFormat:             "text",
		ServerBind:            "127.0.0.1",
		ServerPort:            8787,
	}
}

// Load loads configuration from baseDir, preferring config.yaml over
// config.json, then applies environment overrides.
// Returns default config if neither file exists.
func Load(baseDir string) (*Config, error) {
	file, err := loadDirRaw(baseDir)
	if err != nil {
		return nil, err
	}
	cfg := Merge(DefaultConfig(), file)
	ApplyEnv(cfg, os.LookupEnv)
	return cfg.Normalize(), nil
}

// LoadWithRepo loads configuration from the global directory and the nearest
// .turbobar directory above startDir. Repo config takes precedence, so a
// project can route captures to its own collections.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadDirRaw(globalDir)
	if err != nil {
		return nil, err
	}

	repo := &Config{}
	if repoDir := FindRepoDir(startDir); repoDir != "" && repoDir != filepath.Clean(globalDir) {
		if repo, err = loadDirRaw(repoDir); err != nil {
			return nil, err
		}
	}

	cfg := Merge(Merge(DefaultConfig(), global), repo)
	ApplyEnv(cfg, os.LookupEnv)
	return cfg.Normalize(), nil
}

// FindRepoDir walks upward from startDir to the nearest .turbobar directory
// holding a config file. Returns "" if none is found.
func FindRepoDir(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir := startDir
	for {
		candidate := filepath.Join(dir, ".turbobar")
		for _, name := range []string{YAMLFileName, JSONFileName} {
			if _, err := os.Stat(filepath.Join(candidate, name)); err == nil {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadDirRaw reads config.yaml or config.json from dir.
// Returns zero-valued config if neither exists (not defaults).
func loadDirRaw(dir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(dir, YAMLFileName))
	if err == nil && cfg != nil {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	cfg, err = loadFileRaw(filepath.Join(dir, JSONFileName))
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return &Config{}, nil
	}
	return cfg, nil
}

// loadFileRaw decodes one file by extension. Returns nil, nil if it doesn't exist.
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configPath, err)
	}
	return cfg, nil
}

// Save writes cfg to baseDir/config.json with owner-only permissions.
func Save(baseDir string, cfg *Config) error {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return fmt.Errorf("failed to create base directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(baseDir, JSONFileName), append(data, '\n'), 0600)
}

// Environment variables that override file settings.
const (
	EnvNotionToken  = "NOTION_TOKEN"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvTasksDBID    = "TASKS_DB_ID"
	EnvNotesDBID    = "NOTES_DB_ID"
	EnvGeminiModel  = "GEMINI_MODEL"
	EnvLogLevel     = "TURBOBAR_LOG_LEVEL"
)

// ApplyEnv overrides cfg with non-empty environment values.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvNotionToken, &cfg.NotionToken)
	set(EnvGeminiAPIKey, &cfg.GeminiAPIKey)
	set(EnvTasksDBID, &cfg.TasksDBID)
	set(EnvNotesDBID, &cfg.NotesDBID)
	set(EnvGeminiModel, &cfg.GeminiModel)
	set(EnvLogLevel, &cfg.LogLevel)
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and
// deduplicated; property maps are overlaid key by key.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		NotionToken:           firstString(overlay.NotionToken, base.NotionToken),
		GeminiAPIKey:          firstString(overlay.GeminiAPIKey, base.GeminiAPIKey),
		TasksDBID:             firstString(overlay.TasksDBID, base.TasksDBID),
		NotesDBID:             firstString(overlay.NotesDBID, base.NotesDBID),
		DefaultTaskPriority:   firstString(overlay.DefaultTaskPriority, base.DefaultTaskPriority),
		NoteCaptureType:       firstString(overlay.NoteCaptureType, base.NoteCaptureType),
		GeminiModel:           firstString(overlay.GeminiModel, base.GeminiModel),
		GeminiBaseURL:         firstString(overlay.GeminiBaseURL, base.GeminiBaseURL),
		NotionBaseURL:         firstString(overlay.NotionBaseURL, base.NotionBaseURL),
		LogLevel:              firstString(overlay.LogLevel, base.LogLevel),
		LogFormat:             firstString(overlay.LogFormat, base.LogFormat),
		ServerBind:            firstString(overlay.ServerBind, base.ServerBind),
		SchemaCacheTTLSeconds: firstInt(overlay.SchemaCacheTTLSeconds, base.SchemaCacheTTLSeconds),
		RequestTimeoutSeconds: firstInt(overlay.RequestTimeoutSeconds, base.RequestTimeoutSeconds),
		ServerPort:            firstInt(overlay.ServerPort, base.ServerPort),
		DBMaxOpenConns:        firstInt(overlay.DBMaxOpenConns, base.DBMaxOpenConns),
		DBMaxIdleConns:        firstInt(overlay.DBMaxIdleConns, base.DBMaxIdleConns),
	}

	// Booleans: overlay wins if true, else base
	result.DefaultTaskNow = base.DefaultTaskNow || overlay.DefaultTaskNow
	result.LogAddSource = base.LogAddSource || overlay.LogAddSource

	// Explicit false must survive a merge, so this one is a pointer.
	result.AutoOrganize = base.AutoOrganize
	if overlay.AutoOrganize != nil {
		result.AutoOrganize = overlay.AutoOrganize
	}

	result.TaskPropertyMap = mergeStringMap(base.TaskPropertyMap, overlay.TaskPropertyMap)
	result.NotePropertyMap = mergeStringMap(base.NotePropertyMap, overlay.NotePropertyMap)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// Normalize repairs settings in place and returns cfg: ids are canonicalised
// (falling back to the defaults), the default priority is forced into range.
func (c *Config) Normalize() *Config {
	c.NotionToken = strings.TrimSpace(c.NotionToken)
	c.GeminiAPIKey = strings.TrimSpace(c.GeminiAPIKey)
	c.TasksDBID = firstString(notion.NormalizeCollectionID(c.TasksDBID), DefaultTasksDBID)
	c.NotesDBID = firstString(notion.NormalizeCollectionID(c.NotesDBID), DefaultNotesDBID)
	c.DefaultTaskPriority = capture.NormalizePriority(c.DefaultTaskPriority, capture.PriorityMedium)
	c.NoteCaptureType = firstString(strings.TrimSpace(c.NoteCaptureType), "Quick")
	return c
}

// AutoOrganizeEnabled reports whether captures are classified before writing.
func (c *Config) AutoOrganizeEnabled() bool {
	return c.AutoOrganize == nil || *c.AutoOrganize
}

// SchemaCacheTTL returns the schema cache lifetime.
func (c *Config) SchemaCacheTTL() time.Duration {
	return time.Duration(c.SchemaCacheTTLSeconds) * time.Second
}

// RequestTimeout returns the per-call timeout for outbound requests.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// TaskTargets returns the property targets for the tasks collection.
func (c *Config) TaskTargets() capture.PropertyTargets {
	return applyPropertyMap(capture.DefaultPropertyTargets(), c.TaskPropertyMap)
}

// NoteTargets returns the property targets for the notes collection.
func (c *Config) NoteTargets() capture.PropertyTargets {
	return applyPropertyMap(capture.DefaultPropertyTargets(), c.NotePropertyMap)
}

// TargetsFor returns the property targets for the collection mode writes to.
func (c *Config) TargetsFor(mode capture.Mode) capture.PropertyTargets {
	if mode.IsNote() {
		return c.NoteTargets()
	}
	return c.TaskTargets()
}

// CollectionFor returns the configured collection id for mode.
func (c *Config) CollectionFor(mode capture.Mode) string {
	if mode.IsNote() {
		return c.NotesDBID
	}
	return c.TasksDBID
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	out.NotionToken = redact(c.NotionToken)
	out.GeminiAPIKey = redact(c.GeminiAPIKey)
	return &out
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

// applyPropertyMap overlays configured names onto targets. Keys that are not
// assignment fields are ignored.
func applyPropertyMap(targets capture.PropertyTargets, overrides map[string]string) capture.PropertyTargets {
	for key, name := range overrides {
		if !capture.IsAssignmentField(key) {
			continue
		}
		targets[capture.AssignmentField(key)] = strings.TrimSpace(name)
	}
	return targets
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

// mergeStringMap overlays b onto a. Empty values in b are kept.
func mergeStringMap(a, b map[string]string) map[string]string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	result := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		result[strings.TrimSpace(k)] = v
	}
	for k, v := range b {
		result[strings.TrimSpace(k)] = v
	}
	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

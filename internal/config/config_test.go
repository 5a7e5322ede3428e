package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hpungsan/turbobar/internal/capture"
)

// clearEnv unsets every override so the developer's shell cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvNotionToken, EnvGeminiAPIKey, EnvTasksDBID, EnvNotesDBID, EnvGeminiModel, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TasksDBID != DefaultTasksDBID {
		t.Errorf("TasksDBID = %q, want %q", cfg.TasksDBID, DefaultTasksDBID)
	}
	if cfg.DefaultTaskPriority != capture.PriorityMedium {
		t.Errorf("DefaultTaskPriority = %q", cfg.DefaultTaskPriority)
	}
	if !cfg.AutoOrganizeEnabled() {
		t.Error("AutoOrganizeEnabled() = false, want true by default")
	}
	if cfg.SchemaCacheTTL() != 5*time.Minute {
		t.Errorf("SchemaCacheTTL() = %v, want 5m", cfg.SchemaCacheTTL())
	}
}

func TestLoad_JSON(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, JSONFileName), `{
		"tasks_db_id": "https://www.notion.so/Work-0123456789abcdef0123456789abcdef?v=1",
		"auto_organize": false,
		"default_task_priority": "P9",
		"task_property_map": {"project": "Initiative", "goal": ""}
	}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TasksDBID != "01234567-89ab-cdef-0123-456789abcdef" {
		t.Errorf("TasksDBID = %q", cfg.TasksDBID)
	}
	if cfg.AutoOrganizeEnabled() {
		t.Error("explicit auto_organize false was lost")
	}
	if cfg.DefaultTaskPriority != capture.PriorityMedium {
		t.Errorf("DefaultTaskPriority = %q, want fallback", cfg.DefaultTaskPriority)
	}

	targets := cfg.TaskTargets()
	if targets[capture.FieldProject] != "Initiative" {
		t.Errorf("project target = %q, want Initiative", targets[capture.FieldProject])
	}
	if targets[capture.FieldGoal] != "" {
		t.Errorf("goal target = %q, want opted out", targets[capture.FieldGoal])
	}
	if targets[capture.FieldArea] != "Area" {
		t.Errorf("area target = %q, want default", targets[capture.FieldArea])
	}
	if cfg.NoteTargets()[capture.FieldProject] != "Project" {
		t.Error("note targets should not see task overrides")
	}
}

func TestLoad_YAMLPreferred(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, JSONFileName), `{"gemini_model": "from-json"}`)
	writeFile(t, filepath.Join(tmpDir, YAMLFileName), "gemini_model: from-yaml\nnote_property_map:\n  subArea: Topic\ndisabled_tools:\n  - capture_write\n")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GeminiModel != "from-yaml" {
		t.Errorf("GeminiModel = %q, want from-yaml", cfg.GeminiModel)
	}
	if cfg.TargetsFor(capture.ModeInbox)[capture.FieldSubArea] != "Topic" {
		t.Errorf("subArea note target not applied")
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "capture_write" {
		t.Errorf("DisabledTools = %v", cfg.DisabledTools)
	}
}

func TestLoad_InvalidFiles(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", JSONFileName, `{not json}`},
		{"yaml", YAMLFileName, "gemini_model: [unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeFile(t, filepath.Join(tmpDir, tt.file), tt.content)
			if _, err := Load(tmpDir); err == nil {
				t.Fatal("Load() expected error, got nil")
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvNotionToken, " secret_abc ")
	t.Setenv(EnvGeminiAPIKey, "gem-key")
	t.Setenv(EnvNotesDBID, "fedcba9876543210fedcba9876543210")
	t.Setenv(EnvLogLevel, "debug")

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, JSONFileName), `{"notion_token": "file-token", "log_level": "warn"}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.NotionToken != "secret_abc" {
		t.Errorf("NotionToken = %q", cfg.NotionToken)
	}
	if cfg.GeminiAPIKey != "gem-key" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
	if cfg.NotesDBID != "fedcba98-7654-3210-fedc-ba9876543210" {
		t.Errorf("NotesDBID = %q", cfg.NotesDBID)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadWithRepo(t *testing.T) {
	clearEnv(t)
	globalDir := t.TempDir()
	project := t.TempDir()
	nested := filepath.Join(project, "src", "pkg")
	if err := os.MkdirAll(nested, 0700); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(globalDir, JSONFileName), `{"gemini_model": "global", "disabled_tools": ["capture_list"]}`)
	writeFile(t, filepath.Join(project, ".turbobar", JSONFileName), `{"tasks_db_id": "11111111111111111111111111111111", "disabled_tools": ["capture_fetch"]}`)

	cfg, err := LoadWithRepo(globalDir, nested)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.GeminiModel != "global" {
		t.Errorf("GeminiModel = %q, want global", cfg.GeminiModel)
	}
	if cfg.CollectionFor(capture.ModeTask) != "11111111-1111-1111-1111-111111111111" {
		t.Errorf("task collection = %q", cfg.CollectionFor(capture.ModeTask))
	}
	if cfg.CollectionFor(capture.ModeBrainDump) != DefaultNotesDBID {
		t.Errorf("note collection = %q", cfg.CollectionFor(capture.ModeBrainDump))
	}
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools = %v, want merged", cfg.DisabledTools)
	}
}

func TestFindRepoDir(t *testing.T) {
	project := t.TempDir()
	nested := filepath.Join(project, "a", "b")
	if err := os.MkdirAll(nested, 0700); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(project, ".turbobar", YAMLFileName), "gemini_model: x\n")

	if got := FindRepoDir(nested); got != filepath.Join(project, ".turbobar") {
		t.Errorf("FindRepoDir() = %q", got)
	}
	if got := FindRepoDir(""); got != "" {
		t.Errorf("FindRepoDir(\"\") = %q, want empty", got)
	}
}

func TestMerge(t *testing.T) {
	on, off := true, false
	base := &Config{
		GeminiModel:     "base",
		ServerPort:      1,
		AutoOrganize:    &off,
		TaskPropertyMap: map[string]string{"project": "Initiative", "goal": "Goal"},
		DisabledTools:   []string{"a", " b "},
	}
	overlay := &Config{
		ServerPort:      2,
		DefaultTaskNow:  true,
		TaskPropertyMap: map[string]string{"goal": ""},
		DisabledTools:   []string{"b", "c"},
	}

	got := Merge(base, overlay)
	if got.GeminiModel != "base" || got.ServerPort != 2 || !got.DefaultTaskNow {
		t.Errorf("scalars merged wrong: %+v", got)
	}
	if got.AutoOrganize == nil || *got.AutoOrganize {
		t.Errorf("AutoOrganize = %v, want base false", got.AutoOrganize)
	}
	if got.TaskPropertyMap["project"] != "Initiative" || got.TaskPropertyMap["goal"] != "" {
		t.Errorf("TaskPropertyMap = %v", got.TaskPropertyMap)
	}
	if len(got.DisabledTools) != 3 {
		t.Errorf("DisabledTools = %v", got.DisabledTools)
	}

	got = Merge(base, &Config{AutoOrganize: &on})
	if !got.AutoOrganizeEnabled() {
		t.Error("overlay AutoOrganize true lost")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	tmpDir := filepath.Join(t.TempDir(), ".turbobar")

	cfg := DefaultConfig()
	cfg.NotionToken = "secret_token"
	if err := Save(tmpDir, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(tmpDir, JSONFileName))
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config permissions = %o, want 600", perm)
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.NotionToken != "secret_token" {
		t.Errorf("NotionToken = %q", loaded.NotionToken)
	}
}

func TestRedacted(t *testing.T) {
	cfg := &Config{NotionToken: "secret_1234567890", GeminiAPIKey: "short"}
	r := cfg.Redacted()
	if r.NotionToken != "****7890" {
		t.Errorf("NotionToken = %q", r.NotionToken)
	}
	if r.GeminiAPIKey != "****" {
		t.Errorf("GeminiAPIKey = %q", r.GeminiAPIKey)
	}
	if cfg.NotionToken != "secret_1234567890" {
		t.Error("Redacted() modified the original")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cleanup := setEnvs(t, map[string]string{
		"AMBULANCE_API_MONGODB_HOST":       "mongo.test",
		"AMBULANCE_API_MONGODB_USERNAME":   "admin",
		"AMBULANCE_API_MONGODB_PASSWORD":   "s3cret",
		"AMBULANCE_API_MONGODB_COLLECTION": "patients",
	})
	defer cleanup()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Port != "27017" {
			t.Errorf("Port = %q, want 27017", cfg.Port)
		}
		if cfg.Database != "ambulance-virtual-patient-db" {
			t.Errorf("Database = %q, want ambulance-virtual-patient-db", cfg.Database)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
		}
		if cfg.RetryInterval() != 5*time.Second {
			t.Errorf("RetryInterval = %v, want 5s", cfg.RetryInterval())
		}
		if cfg.Timeout() != 10*time.Second {
			t.Errorf("Timeout = %v, want 10s", cfg.Timeout())
		}
		if cfg.FailOnWriteError {
			t.Error("FailOnWriteError = true, want false")
		}
	})

	t.Run("env_vars_read", func(t *testing.T) {
		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Host != "mongo.test" {
			t.Errorf("Host = %q, want mongo.test", cfg.Host)
		}
		if cfg.Username != "admin" || cfg.Password != "s3cret" {
			t.Errorf("credentials = %q/%q, want admin/s3cret", cfg.Username, cfg.Password)
		}
		if cfg.Collection != "patients" {
			t.Errorf("Collection = %q, want patients", cfg.Collection)
		}
	})

	t.Run("cli_overrides_take_priority", func(t *testing.T) {
		cfg, err := Load(Overrides{
			EnvFile:          "nonexistent.env",
			LogLevel:         "debug",
			Host:             "override",
			Port:             "27018",
			Database:         "other-db",
			Collection:       "other-coll",
			FailOnWriteError: true,
		})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
		}
		if cfg.Host != "override" {
			t.Errorf("Host = %q, want override", cfg.Host)
		}
		if cfg.Port != "27018" {
			t.Errorf("Port = %q, want 27018", cfg.Port)
		}
		if cfg.Database != "other-db" {
			t.Errorf("Database = %q, want other-db", cfg.Database)
		}
		if cfg.Collection != "other-coll" {
			t.Errorf("Collection = %q, want other-coll", cfg.Collection)
		}
		if !cfg.FailOnWriteError {
			t.Error("FailOnWriteError = false, want true")
		}
	})

	t.Run("env_file_loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		if err := os.WriteFile(path, []byte("AMBULANCE_API_MONGODB_DATABASE=from-file\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		defer os.Unsetenv("AMBULANCE_API_MONGODB_DATABASE")

		cfg, err := Load(Overrides{EnvFile: path})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Database != "from-file" {
			t.Errorf("Database = %q, want from-file", cfg.Database)
		}
	})
}

func TestRetryInterval(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{"empty", "", 5 * time.Second},
		{"numeric", "12", 12 * time.Second},
		{"padded", " 3 ", 3 * time.Second},
		{"non_numeric", "soon", 5 * time.Second},
		{"trailing_garbage", "7s", 5 * time.Second},
		{"zero", "0", 5 * time.Second},
		{"negative", "-2", 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{RetrySeconds: tt.raw}
			if got := cfg.RetryInterval(); got != tt.want {
				t.Errorf("RetryInterval(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLoadInvalidRetryIsNotFatal(t *testing.T) {
	cleanup := setEnvs(t, map[string]string{"RETRY_CONNECTION_SECONDS": "abc"})
	defer cleanup()

	cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RetryInterval() != DefaultRetryInterval {
		t.Errorf("RetryInterval = %v, want %v", cfg.RetryInterval(), DefaultRetryInterval)
	}
}

// setEnvs sets environment variables and returns a cleanup function.
func setEnvs(t *testing.T, envs map[string]string) func() {
	t.Helper()
	originals := make(map[string]string)
	unset := make([]string, 0)

	for k, v := range envs {
		if orig, ok := os.LookupEnv(k); ok {
			originals[k] = orig
		} else {
			unset = append(unset, k)
		}
		os.Setenv(k, v)
	}

	return func() {
		for k, v := range originals {
			os.Setenv(k, v)
		}
		for _, k := range unset {
			os.Unsetenv(k)
		}
	}
}

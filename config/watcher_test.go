package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	configPath := writeConfigFile(t, `{
		"transports": [{"type": "stdio", "enabled": true}],
		"logging": {"level": "info", "format": "json", "path": "/tmp/watch.log"}
	}`)

	reloaded := make(chan *Config, 1)
	watcher, err := NewWatcher(configPath, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		watcher.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	updated := `{
		"transports": [{"type": "stdio", "enabled": true}],
		"logging": {"level": "debug", "format": "json", "path": "/tmp/watch.log"}
	}`
	if err := os.WriteFile(configPath, []byte(updated), 0644); err != nil {
		t.Fatalf("Failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Logging.Level != "debug" {
			t.Errorf("Expected reloaded log level 'debug', got '%s'", cfg.Logging.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for config reload")
	}
}

func TestWatcherSkipsInvalidConfig(t *testing.T) {
	configPath := writeConfigFile(t, `{"transports": [{"type": "stdio", "enabled": true}]}`)

	reloaded := make(chan *Config, 1)
	watcher, err := NewWatcher(configPath, func(cfg *Config) { reloaded <- cfg })
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		watcher.Run(ctx)
	}()

	if err := os.WriteFile(configPath, []byte(`{"logging": {"level": "loud"}}`), 0644); err != nil {
		t.Fatalf("Failed to rewrite config: %v", err)
	}

	<-done
	select {
	case cfg := <-reloaded:
		t.Fatalf("Expected invalid config to be skipped, got %+v", cfg)
	default:
	}
}

func TestNewWatcherRequiresCallback(t *testing.T) {
	if _, err := NewWatcher(writeConfigFile(t, `{}`), nil); err == nil {
		t.Error("Expected error for nil callback")
	}
}

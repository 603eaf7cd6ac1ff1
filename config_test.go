package bbtr

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		FlushInterval:  time.Second,
		MaxConcurrency: 1,
		MaxBatchSize:   1,
		InitChunkSize:  1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c Config) Config
		wantErr bool
	}{
		{"valid", func(c Config) Config { return c }, false},
		{"missing FlushInterval", func(c Config) Config { c.FlushInterval = 0; return c }, true},
		{"missing MaxConcurrency", func(c Config) Config { c.MaxConcurrency = 0; return c }, true},
		{"missing MaxBatchSize", func(c Config) Config { c.MaxBatchSize = 0; return c }, true},
		{"missing InitChunkSize", func(c Config) Config { c.InitChunkSize = 0; return c }, true},
		{"negative MailboxBufferSize", func(c Config) Config { c.MailboxBufferSize = -1; return c }, true},
		{"negative ShutdownTimeout", func(c Config) Config { c.ShutdownTimeout = -1; return c }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate(validConfig()).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	c := validConfig().withDefaults()

	if c.Name != "bbtr" {
		t.Errorf("Name = %q, want %q", c.Name, "bbtr")
	}
	if c.MailboxBufferSize != DefaultMailboxBufferSize {
		t.Errorf("MailboxBufferSize = %d, want %d", c.MailboxBufferSize, DefaultMailboxBufferSize)
	}
	if c.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v, want %v", c.ShutdownTimeout, DefaultShutdownTimeout)
	}
	if c.Logger == nil {
		t.Error("Logger = nil")
	}
	if c.Telemetry == nil {
		t.Error("Telemetry = nil")
	}
	if c.TaskSupervisor == nil {
		t.Error("TaskSupervisor = nil")
	}
}

func TestConfig_WithDefaults_PreservesExplicitValues(t *testing.T) {
	c := validConfig()
	c.Name = "custom"
	c.MailboxBufferSize = 5
	c.ShutdownTimeout = time.Minute

	c = c.withDefaults()
	if c.Name != "custom" || c.MailboxBufferSize != 5 || c.ShutdownTimeout != time.Minute {
		t.Errorf("withDefaults overwrote an explicit value: %+v", c)
	}
}

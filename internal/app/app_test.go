package app

import (
	"testing"

	"go.uber.org/fx"

	"taskflow/internal/config"
)

func TestModuleGraph(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{
			name: "sqlite without reports",
			cfg: config.Config{
				Server:   config.ServerConfig{Host: "127.0.0.1", Port: 5000},
				Database: config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"},
				Report:   config.ReportConfig{Days: 7},
				Timezone: "UTC",
			},
		},
		{
			name: "scheduled digest",
			cfg: config.Config{
				Server:   config.ServerConfig{Host: "127.0.0.1", Port: 5000},
				Database: config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"},
				Report:   config.ReportConfig{Schedule: "08:00", Days: 7},
				Timezone: "Europe/Berlin",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := fx.ValidateApp(Module(&cfg)); err != nil {
				t.Fatalf("ValidateApp: %v", err)
			}
		})
	}
}

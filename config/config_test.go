package config_test

import (
	"log/slog"
	"testing"

	"github.com/boreq/rentals/config"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	testCases := []struct {
		Name           string
		Env            map[string]string
		ExpectedConfig config.Config
		ExpectedError  bool
	}{
		{
			Name: "defaults",
			Env: map[string]string{
				config.EnvDir: "/data",
			},
			ExpectedConfig: config.Config{
				Backend:     config.BackendBolt,
				Dir:         "/data",
				Compression: "none",
				Address:     "localhost:8080",
				LogLevel:    slog.LevelInfo,
			},
		},
		{
			Name: "everything_set",
			Env: map[string]string{
				config.EnvBackend:     config.BackendBadger,
				config.EnvDir:         "/data",
				config.EnvCompression: "zstd",
				config.EnvJournal:     "/journal",
				config.EnvAddress:     ":9000",
				config.EnvLogLevel:    "debug",
			},
			ExpectedConfig: config.Config{
				Backend:     config.BackendBadger,
				Dir:         "/data",
				Compression: "zstd",
				JournalDir:  "/journal",
				Address:     ":9000",
				LogLevel:    slog.LevelDebug,
			},
		},
		{
			Name:          "missing_dir",
			Env:           map[string]string{},
			ExpectedError: true,
		},
		{
			Name: "unknown_backend",
			Env: map[string]string{
				config.EnvDir:     "/data",
				config.EnvBackend: "sqlite",
			},
			ExpectedError: true,
		},
		{
			Name: "unknown_log_level",
			Env: map[string]string{
				config.EnvDir:      "/data",
				config.EnvLogLevel: "TRACE",
			},
			ExpectedError: true,
		},
		{
			Name: "journal_in_data_dir",
			Env: map[string]string{
				config.EnvDir:     "/data",
				config.EnvJournal: "/data",
			},
			ExpectedError: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			c, err := config.Load(func(key string) string {
				return testCase.Env[key]
			})
			if testCase.ExpectedError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, testCase.ExpectedConfig, c)
		})
	}
}

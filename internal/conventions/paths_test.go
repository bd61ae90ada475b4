package conventions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/slimeboard/internal/conventions"
)

func TestPaths(t *testing.T) {
	tests := map[string]struct {
		path    func(string) string
		dataDir string
		exp     string
	}{
		"Config path should be inside the data dir.": {
			path:    conventions.ConfigPath,
			dataDir: "/home/u/.slimeboard",
			exp:     "/home/u/.slimeboard/config.yaml",
		},
		"SQLite path should be inside the data dir.": {
			path:    conventions.SQLitePath,
			dataDir: "/home/u/.slimeboard",
			exp:     "/home/u/.slimeboard/slimeboard.db",
		},
		"Diskv path should be a data dir subdirectory.": {
			path:    conventions.DiskvPath,
			dataDir: "/home/u/.slimeboard/",
			exp:     "/home/u/.slimeboard/kv",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, test.path(test.dataDir))
		})
	}
}

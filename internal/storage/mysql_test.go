package storage

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		name     string
		dsn      string
		expected string
		wantErr  bool
	}{
		{
			name:     "sets parseTime and UTC",
			dsn:      "root:secret@tcp(127.0.0.1:3306)/sitecheck",
			expected: "root:secret@tcp(127.0.0.1:3306)/sitecheck?parseTime=true",
		},
		{
			name:     "keeps other params",
			dsn:      "root@tcp(db:3306)/history?timeout=5s",
			expected: "root@tcp(db:3306)/history?parseTime=true&timeout=5s",
		},
		{
			name:    "requires database",
			dsn:     "root@tcp(db:3306)/",
			wantErr: true,
		},
		{
			name:    "rejects unsafe database name",
			dsn:     "root@tcp(db:3306)/x`;DROP",
			wantErr: true,
		},
		{
			name:    "rejects garbage",
			dsn:     "not a dsn",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NormalizeDSN(tt.dsn)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.dsn)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !cfg.ParseTime || cfg.Loc != time.UTC {
				t.Error("expected parseTime with UTC location")
			}
			if got := cfg.FormatDSN(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestMySQLStorage_RequiresOpen(t *testing.T) {
	s, err := NewMySQLStorage("root@tcp(127.0.0.1:3306)/sitecheck")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Save(sampleOutput()); err == nil {
		t.Error("expected error saving before Open")
	}
	if _, err := s.Load(); err == nil {
		t.Error("expected error loading before Open")
	}
	if err := s.Close(); err != nil {
		t.Errorf("close of unopened storage: %v", err)
	}
}

func TestLatestRunOrdersByInsertion(t *testing.T) {
	if !strings.Contains(latestRunQuery, "ORDER BY seq DESC") {
		t.Errorf("latest run must follow insertion order, query: %s", latestRunQuery)
	}
	if !strings.Contains(schemaStatements[0], "seq BIGINT NOT NULL AUTO_INCREMENT") {
		t.Error("runs table must carry an auto increment seq column")
	}
}

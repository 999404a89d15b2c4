package database

import "testing"

func TestBinaryCollation(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"10.11.6-MariaDB-1:10.11.6+maria~ubu2204", "utf8mb4_nopad_bin"},
		{"11.4.2-MariaDB", "utf8mb4_nopad_bin"},
		{"5.7.44", "utf8mb4_bin"},
		{"8.0.36", "utf8mb4_0900_bin"},
		{"8.4.0", "utf8mb4_0900_bin"},
	}

	for _, tt := range tests {
		if got := binaryCollation(tt.version); got != tt.want {
			t.Errorf("binaryCollation(%q) = %s, want %s", tt.version, got, tt.want)
		}
	}
}

func TestIgnoresCase(t *testing.T) {
	tests := []struct {
		collation string
		want      bool
	}{
		{"utf8mb4_general_ci", true},
		{"utf8mb4_0900_ai_ci", true},
		{"SQL_Latin1_General_CP1_CI_AS", true},
		{"Latin1_General_100_CI_AS_SC_UTF8", true},
		{"utf8mb4_bin", false},
		{"utf8mb4_nopad_bin", false},
		{"utf8mb4_0900_bin", false},
		{"Latin1_General_100_CS_AS", false},
		{"Latin1_General_100_BIN2", false},
	}

	for _, tt := range tests {
		if got := ignoresCase(tt.collation); got != tt.want {
			t.Errorf("ignoresCase(%q) = %v, want %v", tt.collation, got, tt.want)
		}
	}
}

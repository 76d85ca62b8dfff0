package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"docstore": map[string]any{
			"urlTemplate": "mem://{collection}/{key}",
		},
		"migration": map[string]any{
			"pageTimeout": "30s",
		},
		"secretKey": map[string]any{
			"access": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "DOCSTORE_URLTEMPLATE", want: "docstore.urlTemplate"},
		{envKey: "MIGRATION_PAGETIMEOUT", want: "migration.pageTimeout"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "ENV_PROFILE", want: "env.profile"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

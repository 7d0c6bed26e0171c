package db

import (
	"strings"
	"testing"
)

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{
		"tenants", "users", "properties", "buy_boxes", "deals",
		"deal_matches", "leads", "vendors", "notifications",
	} {
		if !strings.Contains(schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("schema.sql missing table %s", table)
		}
	}
}

func TestSchemaNotificationTypes(t *testing.T) {
	for _, typ := range []string{"info", "success", "warning", "error", "maintenance", "payment", "lease", "lead"} {
		if !strings.Contains(schemaSQL, "'"+typ+"'") {
			t.Errorf("notification_type enum missing %q", typ)
		}
	}
}

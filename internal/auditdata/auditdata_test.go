package auditdata

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestExtractUserIDs(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{"none", "audit everyone please", nil},
		{"single", "check u1001", []string{"u1001"}},
		{"dedup and case", "Audit U1001, u1002 and again u1001", []string{"u1001", "u1002"}},
		{"order preserved", "u2000 then u1000", []string{"u2000", "u1000"}},
		{"embedded digits", "user u12345 mentioned", []string{"u1234"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractUserIDs(tt.message)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ExtractUserIDs(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func sampleAD() *Dataset {
	return NewDataset(map[string]any{
		"source": "corp-ad-export",
		"users": []any{
			map[string]any{"user_id": "u1001", "display_name": "Alice", "account_enabled": false},
			map[string]any{"user_id": "u1002", "display_name": "Brian", "account_enabled": false},
			map[string]any{"user_id": "u1003", "display_name": "Carmen", "account_enabled": true},
		},
	}, "users")
}

func TestFilterKeepsOnlyRequestedRecords(t *testing.T) {
	filtered := sampleAD().Filter([]string{"u1001", "U1002"})

	records := filtered.Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	first := records[0].(map[string]any)
	if first["user_id"] != "u1001" || first["display_name"] != "Alice" || first["account_enabled"] != false {
		t.Fatalf("record fields not preserved: %v", first)
	}
	second := records[1].(map[string]any)
	if second["user_id"] != "u1002" {
		t.Fatalf("source ordering not preserved: %v", second)
	}
}

func TestFilterPreservesContainerShape(t *testing.T) {
	filtered := sampleAD().Filter([]string{"u1003"})
	out, err := filtered.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if !strings.Contains(out, `"source": "corp-ad-export"`) {
		t.Fatalf("non-record field dropped: %s", out)
	}
	if !strings.Contains(out, `"users"`) {
		t.Fatalf("list key renamed: %s", out)
	}
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	src := sampleAD()
	src.Filter([]string{"u1001"})
	if len(src.Records()) != 3 {
		t.Fatalf("source dataset mutated, %d records left", len(src.Records()))
	}
}

func TestFilterNoMatches(t *testing.T) {
	filtered := sampleAD().Filter([]string{"u9999"})
	if len(filtered.Records()) != 0 {
		t.Fatalf("expected empty record list, got %v", filtered.Records())
	}
}

func TestJSONDeterministic(t *testing.T) {
	a, err := sampleAD().JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	b, err := sampleAD().JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if a != b {
		t.Fatal("serialization is not deterministic")
	}
	if !strings.Contains(a, "\n  \"source\"") {
		t.Fatalf("expected 2-space indent, got: %q", a[:40])
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	ad := `{"users":[{"user_id":"u1001"}]}`
	hr := `{"terminations":[{"user_id":"u1001"}]}`
	if err := os.WriteFile(filepath.Join(dir, ActiveDirectoryFile), []byte(ad), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, TerminationsFile), []byte(hr), 0o644); err != nil {
		t.Fatal(err)
	}

	bundle, errs := Load(dir)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !bundle.Complete() {
		t.Fatal("expected complete bundle")
	}
	if len(bundle.ActiveDirectory.Records()) != 1 || len(bundle.Terminations.Records()) != 1 {
		t.Fatal("records not loaded")
	}
}

func TestLoadDegradesOnMissingFiles(t *testing.T) {
	bundle, errs := Load(t.TempDir())
	if len(errs) != 2 {
		t.Fatalf("expected 2 load errors, got %v", errs)
	}
	if bundle.Complete() {
		t.Fatal("bundle must not be complete")
	}
}

func TestLoadDegradesOnMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ActiveDirectoryFile), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	bundle, errs := Load(dir)
	if len(errs) != 2 {
		t.Fatalf("expected 2 load errors, got %v", errs)
	}
	if bundle.ActiveDirectory != nil {
		t.Fatal("malformed dataset must load as nil")
	}
}

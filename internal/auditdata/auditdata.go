// Package auditdata loads the reference datasets handed to audit
// assistants and narrows them to the user records a message asks about.
package auditdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// File names read from the data directory.
const (
	ActiveDirectoryFile = "active_directory.json"
	TerminationsFile    = "hr_termination_report.json"
)

// userIDRe matches user identifiers: the letter "u" followed by exactly
// four digits, case-insensitively.
var userIDRe = regexp.MustCompile(`(?i)u\d{4}`)

// ExtractUserIDs returns all user ids referenced in message, lower-cased,
// deduplicated, in first-seen order.
func ExtractUserIDs(message string) []string {
	matches := userIDRe.FindAllString(message, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	var ids []string
	for _, m := range matches {
		id := strings.ToLower(m)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Dataset is one JSON reference document: an object whose listKey field
// holds an array of records keyed by "user_id". All other fields ride
// along untouched through filtering.
type Dataset struct {
	fields  map[string]any
	listKey string
}

// NewDataset wraps an already-decoded document.
func NewDataset(fields map[string]any, listKey string) *Dataset {
	return &Dataset{fields: fields, listKey: listKey}
}

// LoadDataset reads and decodes one dataset file.
func LoadDataset(path, listKey string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return &Dataset{fields: fields, listKey: listKey}, nil
}

// Filter returns a copy of the dataset whose record list contains exactly
// the records whose user_id (lower-cased) is in ids, in source order.
// Every other field of matching records and of the container is preserved.
func (d *Dataset) Filter(ids []string) *Dataset {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[strings.ToLower(id)] = struct{}{}
	}

	out := make(map[string]any, len(d.fields))
	for k, v := range d.fields {
		out[k] = v
	}

	records, _ := d.fields[d.listKey].([]any)
	kept := make([]any, 0, len(records))
	for _, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		userID, _ := obj["user_id"].(string)
		if _, ok := want[strings.ToLower(userID)]; ok {
			kept = append(kept, rec)
		}
	}
	out[d.listKey] = kept
	return &Dataset{fields: out, listKey: d.listKey}
}

// Records returns the record list of the dataset.
func (d *Dataset) Records() []any {
	records, _ := d.fields[d.listKey].([]any)
	return records
}

// JSON serializes the dataset with a stable 2-space indent. Object keys
// are emitted in sorted order, so output is deterministic for any given
// input.
func (d *Dataset) JSON() (string, error) {
	raw, err := json.MarshalIndent(d.fields, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize dataset: %w", err)
	}
	return string(raw), nil
}

// Bundle holds both reference datasets. Either field may be nil when the
// corresponding file could not be loaded.
type Bundle struct {
	ActiveDirectory *Dataset
	Terminations    *Dataset
}

// Load reads both datasets from dir. A missing or malformed file yields a
// nil dataset and an entry in the returned error list; loading never fails
// as a whole, because injection degrades gracefully without data.
func Load(dir string) (*Bundle, []error) {
	var errs []error
	b := &Bundle{}

	ad, err := LoadDataset(filepath.Join(dir, ActiveDirectoryFile), "users")
	if err != nil {
		errs = append(errs, err)
	} else {
		b.ActiveDirectory = ad
	}

	hr, err := LoadDataset(filepath.Join(dir, TerminationsFile), "terminations")
	if err != nil {
		errs = append(errs, err)
	} else {
		b.Terminations = hr
	}
	return b, errs
}

// Complete reports whether both datasets are available.
func (b *Bundle) Complete() bool {
	return b != nil && b.ActiveDirectory != nil && b.Terminations != nil
}

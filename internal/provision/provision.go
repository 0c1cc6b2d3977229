// Package provision loads assistant definitions from disk and performs the
// idempotent find-or-create step against the remote service. The remote
// identifier returned by creation is recorded in a runtime file next to the
// static definition so later processes reuse it.
package provision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/auditdesk/assistant-hub/internal/domain"
	"github.com/auditdesk/assistant-hub/internal/openai"
)

// File names inside each assistant directory.
const (
	ConfigFile  = "config.json"
	RuntimeFile = "runtime.json"
)

// Definition is one assistant found on disk: its directory and its parsed
// static configuration.
type Definition struct {
	Key    string
	Dir    string
	Config domain.Assistant
}

// Runtime records the remote-assigned identifier alongside a copy of the
// static configuration at creation time. On load, runtime values override
// static ones.
type Runtime struct {
	AssistantID string    `json:"assistantId"`
	CreatedAt   time.Time `json:"createdAt"`
	domain.Assistant
}

// Client is the remote surface provisioning needs.
type Client interface {
	CreateAssistant(ctx context.Context, req openai.AssistantRequest) (*openai.Assistant, error)
	GetAssistant(ctx context.Context, assistantID string) (*openai.Assistant, error)
}

// LoadDefinitions discovers assistant definitions under dir: every
// subdirectory containing a config file is one assistant, keyed by the
// directory name.
func LoadDefinitions(dir string) ([]Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read assistants dir %s: %w", dir, err)
	}

	var defs []Definition
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(dir, entry.Name())
		cfg, err := loadConfig(filepath.Join(sub, ConfigFile))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		defs = append(defs, Definition{Key: entry.Name(), Dir: sub, Config: *cfg})
	}
	return defs, nil
}

// LoadRuntime reads the runtime record of an assistant directory. It
// returns nil without error when no record exists yet.
func LoadRuntime(dir string) (*Runtime, error) {
	raw, err := os.ReadFile(filepath.Join(dir, RuntimeFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read runtime for %s: %w", dir, err)
	}
	var rt Runtime
	if err := json.Unmarshal(raw, &rt); err != nil {
		return nil, fmt.Errorf("parse runtime for %s: %w", dir, err)
	}
	return &rt, nil
}

// EffectiveConfig returns the assistant configuration with the runtime
// record overlaid: values recorded at provisioning time win on collision,
// and the remote identifier is carried over. Endpoint paths always come
// from the static definition, since routing follows the current config.
func EffectiveConfig(def Definition) (domain.Assistant, error) {
	a := def.Config
	rt, err := LoadRuntime(def.Dir)
	if err != nil {
		return a, err
	}
	if rt == nil {
		return a, nil
	}
	a.ID = rt.AssistantID
	if rt.Name != "" {
		a.Name = rt.Name
	}
	if rt.Description != "" {
		a.Description = rt.Description
	}
	if rt.Model != "" {
		a.Model = rt.Model
	}
	if rt.Instructions != "" {
		a.Instructions = rt.Instructions
	}
	if rt.Temperature != nil {
		a.Temperature = rt.Temperature
	}
	if len(rt.Tools) > 0 {
		a.Tools = rt.Tools
	}
	return a, nil
}

// Ensure finds or creates the remote assistant for def. An existing runtime
// record is verified against the remote service; a stale record (the remote
// assistant no longer exists) falls through to creation, and the new
// identifier replaces it on disk.
func Ensure(ctx context.Context, client Client, def Definition) (*Runtime, error) {
	rt, err := LoadRuntime(def.Dir)
	if err != nil {
		return nil, err
	}
	if rt != nil && rt.AssistantID != "" {
		if _, err := client.GetAssistant(ctx, rt.AssistantID); err == nil {
			return rt, nil
		}
	}

	created, err := client.CreateAssistant(ctx, Request(def.Config))
	if err != nil {
		return nil, fmt.Errorf("create assistant %s: %w", def.Key, err)
	}

	rt = &Runtime{
		AssistantID: created.ID,
		CreatedAt:   time.Now().UTC(),
		Assistant:   def.Config,
	}
	if err := writeRuntime(def.Dir, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func loadConfig(path string) (*domain.Assistant, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("read assistant config %s: %w", path, err)
	}
	var cfg domain.Assistant
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse assistant config %s: %w", path, err)
	}
	return &cfg, nil
}

func writeRuntime(dir string, rt *Runtime) error {
	raw, err := json.MarshalIndent(rt, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize runtime: %w", err)
	}
	path := filepath.Join(dir, RuntimeFile)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write runtime %s: %w", path, err)
	}
	return nil
}

// Request builds the remote create/update payload for an assistant
// definition.
func Request(a domain.Assistant) openai.AssistantRequest {
	req := openai.AssistantRequest{
		Name:         a.Name,
		Description:  a.Description,
		Model:        a.Model,
		Instructions: a.Instructions,
		Temperature:  a.Temperature,
	}
	for _, t := range a.Tools {
		req.Tools = append(req.Tools, openai.Tool{Type: t.Type})
	}
	return req
}

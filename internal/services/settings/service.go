package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	settingsRepo "github.com/scrimworks/scrimbot/internal/repositories/settings"
)

// Section and field names of the settings document
const (
	sectionServer          = "server"
	sectionChannelDefaults = "channel_defaults"
	sectionChannel         = "channel"
)

// ServerSettings is the flattened server-level configuration
type ServerSettings struct {
	// ModChannel receives moderation notices
	ModChannel string

	// Timezone is the guild's display timezone name
	Timezone string

	// ReportsPerDay bounds user reports
	ReportsPerDay int

	// TimeoutRole marks restricted users
	TimeoutRole string

	// InviteChannel is where invite links are created
	InviteChannel string
}

// ChannelSettings is the flattened per-channel configuration, computed as
// channel defaults overridden by the channel-specific entry.
type ChannelSettings struct {
	// BroadcastChannel receives the upcoming-scrims listing
	BroadcastChannel string

	// PingCooldown is the roster ping cooldown in minutes
	PingCooldown int

	// ScrimmerRole is mentioned in announcements
	ScrimmerRole string

	// Prefix is the display name for unnamed scrims
	Prefix string

	// Capacity is the default roster size
	Capacity int
}

// Config holds configuration for the settings service
type Config struct {
	// GuildID is the guild this service manages settings for
	GuildID string

	// Repo persists the settings document
	Repo settingsRepo.Repository

	// Channels supplies the live set of valid channel ids
	Channels func() map[string]struct{}

	// Roles supplies the live set of valid role ids
	Roles func() map[string]struct{}
}

// Service is the schema-validated settings store for one guild
type Service struct {
	cfg *Config

	mu   sync.RWMutex
	data map[string]any
}

// New creates a settings service and loads the persisted document,
// defaulting to an empty one.
func New(ctx context.Context, cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Repo == nil {
		return nil, errors.New("repository cannot be nil")
	}
	if cfg.Channels == nil || cfg.Roles == nil {
		return nil, errors.New("channel and role sets cannot be nil")
	}

	out, err := cfg.Repo.Get(ctx, &settingsRepo.GetInput{GuildID: cfg.GuildID})
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	data := out.Document
	if data == nil {
		data = map[string]any{}
	}

	return &Service{cfg: cfg, data: data}, nil
}

// template builds a fresh schema template. Field instances hold candidate
// values during combine, so a template is never reused.
type template struct {
	server          map[string]*field
	channelDefaults map[string]*field
	channel         map[string]map[string]*field
}

func (s *Service) template() *template {
	return &template{
		server: map[string]*field{
			"mod_channel":     channelField(s.cfg.Channels),
			"timezone":        timezoneField(),
			"reports_per_day": intField(2),
			"timeout_role":    roleField(s.cfg.Roles),
			"invite_channel":  channelField(s.cfg.Channels),
		},
		channelDefaults: s.channelTemplate(),
		channel:         map[string]map[string]*field{},
	}
}

func (s *Service) channelTemplate() map[string]*field {
	return map[string]*field{
		"broadcast_channel": channelField(s.cfg.Channels),
		"ping_cooldown":     intField(5),
		"scrimmer_role":     roleField(s.cfg.Roles),
		"prefix":            stringField("Mixed Scrim"),
		"capacity":          intField(8),
	}
}

// combine merges a candidate document into a fresh template, rejecting
// unknown keys at every level. When strict is set the server section is
// required, as it is for Replace.
func (s *Service) combine(doc map[string]any, strict bool) (*template, error) {
	tpl := s.template()

	if err := checkKeys(doc, []string{sectionServer, sectionChannelDefaults, sectionChannel}); err != nil {
		return nil, err
	}

	server, ok := doc[sectionServer]
	if !ok && strict {
		return nil, ValidationError("settings need to contain a `server` section")
	}
	if ok {
		if err := combineSection(tpl.server, sectionServer, server); err != nil {
			return nil, err
		}
	}

	if defaults, ok := doc[sectionChannelDefaults]; ok {
		if err := combineSection(tpl.channelDefaults, sectionChannelDefaults, defaults); err != nil {
			return nil, err
		}
	}

	if channels, ok := doc[sectionChannel]; ok {
		m, ok := channels.(map[string]any)
		if !ok {
			return nil, ValidationError("`channel` should contain a list of channels")
		}
		for id, overrides := range m {
			section := s.channelTemplate()
			if err := combineSection(section, "channel "+id, overrides); err != nil {
				return nil, err
			}
			tpl.channel[id] = section
		}
	}

	return tpl, nil
}

func combineSection(section map[string]*field, name string, data any) error {
	m, ok := data.(map[string]any)
	if !ok {
		return validationErrorf("`%s` should contain a list of settings", name)
	}

	valid := make([]string, 0, len(section))
	for k := range section {
		valid = append(valid, k)
	}
	if err := checkKeys(m, valid); err != nil {
		return err
	}

	for k, v := range m {
		section[k].value = v
	}
	return nil
}

func checkKeys(data map[string]any, valid []string) error {
	validSet := make(map[string]struct{}, len(valid))
	for _, k := range valid {
		validSet[k] = struct{}{}
	}

	var unknown []string
	for k := range data {
		if _, ok := validSet[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return validationErrorf("invalid keys found: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// validate checks every field and cross-references per-channel overrides
// against the live channel id set.
func (s *Service) validate(tpl *template) error {
	for _, section := range append([]map[string]*field{tpl.server, tpl.channelDefaults}, channelSections(tpl)...) {
		for _, f := range section {
			if err := f.validate(); err != nil {
				return err
			}
		}
	}

	channels := s.cfg.Channels()
	for id := range tpl.channel {
		if _, ok := channels[id]; !ok {
			return validationErrorf("`%s` is not a valid channel", id)
		}
	}
	return nil
}

func channelSections(tpl *template) []map[string]*field {
	out := make([]map[string]*field, 0, len(tpl.channel))
	for _, section := range tpl.channel {
		out = append(out, section)
	}
	return out
}

// flatten folds a combined template back into a plain nested value map,
// dropping empty values and, when useDefaults is set, applying defaults.
func flatten(tpl *template, useDefaults bool) map[string]any {
	out := map[string]any{}

	if server := flattenSection(tpl.server, useDefaults); len(server) > 0 {
		out[sectionServer] = server
	}
	if defaults := flattenSection(tpl.channelDefaults, useDefaults); len(defaults) > 0 {
		out[sectionChannelDefaults] = defaults
	}

	channels := map[string]any{}
	for id, section := range tpl.channel {
		if flat := flattenSection(section, useDefaults); len(flat) > 0 {
			channels[id] = flat
		}
	}
	if len(channels) > 0 {
		out[sectionChannel] = channels
	}

	return out
}

func flattenSection(section map[string]*field, useDefaults bool) map[string]any {
	out := map[string]any{}
	for k, f := range section {
		v := f.value
		if useDefaults {
			v = f.valueOrDefault()
		}
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// Replace validates the candidate document and, only on success, swaps it
// in as the guild's settings and persists it. Never partially applies.
func (s *Service) Replace(ctx context.Context, doc map[string]any) error {
	tpl, err := s.combine(doc, true)
	if err != nil {
		return err
	}
	if err := s.validate(tpl); err != nil {
		return err
	}

	flat := flatten(tpl, false)
	if err := s.cfg.Repo.Save(ctx, &settingsRepo.SaveInput{GuildID: s.cfg.GuildID, Document: flat}); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}

	s.mu.Lock()
	s.data = flat
	s.mu.Unlock()
	return nil
}

// ReplaceYAML decodes a YAML settings document and applies it via Replace.
func (s *Service) ReplaceYAML(ctx context.Context, data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return validationErrorf("not a valid settings document: %v", err)
	}
	return s.Replace(ctx, doc)
}

// ExportYAML renders the stored settings document, with defaults applied,
// as YAML.
func (s *Service) ExportYAML() ([]byte, error) {
	return yaml.Marshal(s.read())
}

// Server returns the flattened server-level settings with defaults applied.
func (s *Service) Server() ServerSettings {
	flat := s.read()
	server, _ := flat[sectionServer].(map[string]any)
	return ServerSettings{
		ModChannel:    idValue(server, "mod_channel"),
		Timezone:      stringValue(server, "timezone"),
		ReportsPerDay: intValue(server, "reports_per_day"),
		TimeoutRole:   idValue(server, "timeout_role"),
		InviteChannel: idValue(server, "invite_channel"),
	}
}

// Channel returns the flattened settings for one channel: channel defaults
// overridden by the explicitly set keys of the channel-specific entry.
func (s *Service) Channel(id string) ChannelSettings {
	return channelSettings(s.mergedChannel(id))
}

// Channels returns the flattened settings of every channel with an
// explicit override entry.
func (s *Service) Channels() map[string]ChannelSettings {
	s.mu.RLock()
	raw, _ := s.data[sectionChannel].(map[string]any)
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	out := map[string]ChannelSettings{}
	for _, id := range ids {
		out[id] = s.Channel(id)
	}
	return out
}

func (s *Service) mergedChannel(id string) map[string]any {
	flat := s.read()

	merged := map[string]any{}
	if defaults, ok := flat[sectionChannelDefaults].(map[string]any); ok {
		for k, v := range defaults {
			merged[k] = v
		}
	}

	s.mu.RLock()
	if channels, ok := s.data[sectionChannel].(map[string]any); ok {
		if override, ok := channels[id].(map[string]any); ok {
			for k, v := range override {
				merged[k] = v
			}
		}
	}
	s.mu.RUnlock()

	return merged
}

// Location returns the guild timezone, falling back to UTC.
func (s *Service) Location() *time.Location {
	loc, err := time.LoadLocation(s.Server().Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// read re-derives the flattened-with-defaults view of the stored document.
// Reads are tolerant of an empty store so a fresh guild gets pure defaults.
func (s *Service) read() map[string]any {
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()

	tpl, err := s.combine(data, false)
	if err != nil {
		tpl = s.template()
	}
	return flatten(tpl, true)
}

func channelSettings(section map[string]any) ChannelSettings {
	out := ChannelSettings{
		BroadcastChannel: idValue(section, "broadcast_channel"),
		PingCooldown:     intValue(section, "ping_cooldown"),
		ScrimmerRole:     idValue(section, "scrimmer_role"),
		Prefix:           stringValue(section, "prefix"),
		Capacity:         intValue(section, "capacity"),
	}
	if out.PingCooldown == 0 {
		out.PingCooldown = 5
	}
	if out.Prefix == "" {
		out.Prefix = "Mixed Scrim"
	}
	if out.Capacity == 0 {
		out.Capacity = 8
	}
	return out
}

func stringValue(section map[string]any, key string) string {
	if section == nil {
		return ""
	}
	v, _ := section[key].(string)
	return v
}

func intValue(section map[string]any, key string) int {
	if section == nil {
		return 0
	}
	n, _ := asInt(section[key])
	return n
}

func idValue(section map[string]any, key string) string {
	if section == nil {
		return ""
	}
	id, _ := asID(section[key])
	return id
}

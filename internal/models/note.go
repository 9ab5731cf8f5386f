// Package models defines the domain types for Ansuz.
package models

import (
	"strings"
	"time"
)

// Note is a single tagged note. Notes have no folder hierarchy; tags are the
// only organizing structure. Invariant: UpdatedAt >= CreatedAt.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTag reports whether the note carries the given (normalized) tag.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasAllTags reports whether the note carries every tag in tags.
// An empty slice matches trivially.
func (n *Note) HasAllTags(tags []string) bool {
	for _, t := range tags {
		if !n.HasTag(t) {
			return false
		}
	}
	return true
}

// Touched returns the note's last activity time: UpdatedAt when set,
// otherwise CreatedAt.
func (n *Note) Touched() time.Time {
	if n.UpdatedAt.After(n.CreatedAt) {
		return n.UpdatedAt
	}
	return n.CreatedAt
}

// NormalizeTag lowercases and trims a raw tag. Returns "" for blank input.
func NormalizeTag(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizeTags lowercases, trims, and deduplicates tags while preserving
// first-occurrence order. Blank entries are dropped.
func NormalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		t := NormalizeTag(r)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

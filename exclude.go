// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/woozymasta/pathrules"
)

// Glob wildcard placeholders survive regexp.QuoteMeta untouched.
const (
	globStarPlaceholder     = "__zipcontentsstar__"
	globQuestionPlaceholder = "__zipcontentsquestion__"
)

// ExcludeOptions holds exclusion configuration.
type ExcludeOptions struct {
	// FilePatterns are globs matched against a trailing path segment run.
	FilePatterns []string `json:"file_exclude_patterns,omitempty" yaml:"file_exclude_patterns,omitempty"`
	// FolderPatterns are globs matched against a segment run followed by "/".
	FolderPatterns []string `json:"folder_exclude_patterns,omitempty" yaml:"folder_exclude_patterns,omitempty"`
	// Rules are ordered include/exclude path rules evaluated after glob patterns.
	Rules []pathrules.Rule `json:"exclude_rules,omitempty" yaml:"exclude_rules,omitempty"`
	// RulesMatcherOptions control rule matching (default action is include).
	RulesMatcherOptions pathrules.MatcherOptions `json:"exclude_rules_matcher_options,omitzero" yaml:"exclude_rules_matcher_options,omitempty"`
}

// ExcludeFilter decides which archive entries are hidden from listings. It is immutable.
type ExcludeFilter struct {
	pattern *regexp.Regexp
	rules   *pathrules.Matcher
}

// NewExcludeFilter compiles glob patterns and rules into one filter.
// With no patterns and no rules the filter keeps everything.
func NewExcludeFilter(opts ExcludeOptions) (*ExcludeFilter, error) {
	filter := &ExcludeFilter{}

	pattern, err := compileExcludePattern(opts.FilePatterns, opts.FolderPatterns)
	if err != nil {
		return nil, err
	}
	filter.pattern = pattern

	rules := normalizeExcludeRules(opts.Rules)
	if len(rules) > 0 {
		matcherOpts := opts.RulesMatcherOptions
		if matcherOpts.DefaultAction == pathrules.ActionUnknown {
			matcherOpts.DefaultAction = pathrules.ActionInclude
		}

		matcher, err := pathrules.NewMatcher(rules, matcherOpts)
		if err != nil {
			return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidPattern, err)
		}
		filter.rules = matcher
	}

	return filter, nil
}

// Matches reports whether path should be excluded.
func (f *ExcludeFilter) Matches(path string) bool {
	if f == nil {
		return false
	}

	if f.pattern != nil && f.pattern.MatchString(path) {
		return true
	}

	if f.rules != nil {
		isDir := strings.HasSuffix(path, "/")
		candidate := strings.TrimSuffix(normalizePathForMatching(path), "/")
		if candidate != "" && !f.rules.Included(candidate, isDir) {
			return true
		}
	}

	return false
}

// Apply returns entries that are not excluded, preserving order.
func (f *ExcludeFilter) Apply(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if f.Matches(entry) {
			continue
		}

		out = append(out, entry)
	}

	return out
}

// compileExcludePattern builds one regexp matching any pattern at start of string or after "/".
// File patterns are anchored at end of string, folder patterns at a following "/".
func compileExcludePattern(filePatterns, folderPatterns []string) (*regexp.Regexp, error) {
	alternatives := make([]string, 0, len(filePatterns)+len(folderPatterns))
	for _, pattern := range filePatterns {
		if pattern == "" {
			continue
		}
		alternatives = append(alternatives, convertGlob(pattern)+"$")
	}
	for _, pattern := range folderPatterns {
		if pattern == "" {
			continue
		}
		alternatives = append(alternatives, convertGlob(pattern)+"/")
	}

	if len(alternatives) == 0 {
		return nil, nil
	}

	expr := "(?:^|/)(?:" + strings.Join(alternatives, "|") + ")"
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	return re, nil
}

// convertGlob escapes everything but "*" and "?", which become "[^/]*" and "[^/]".
func convertGlob(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "*", globStarPlaceholder)
	pattern = strings.ReplaceAll(pattern, "?", globQuestionPlaceholder)
	pattern = regexp.QuoteMeta(pattern)
	pattern = strings.ReplaceAll(pattern, globStarPlaceholder, "[^/]*")
	return strings.ReplaceAll(pattern, globQuestionPlaceholder, "[^/]")
}

// normalizeExcludeRules normalizes rule patterns and drops empty patterns.
func normalizeExcludeRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizePathForMatching(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

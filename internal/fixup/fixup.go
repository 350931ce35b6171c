// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fixup cleans generated Markdown before it is handed to pandoc.
// The rules strip MarkdownSnippets banners, table-of-contents regions,
// navigation footers and snippet link annotations, and rewrite fenced code
// languages that Pygments does not know.
package fixup

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultSnippetBaseURL is prepended to snippet source paths.
const DefaultSnippetBaseURL = "https://github.com/approvals/ApprovalTests.cpp/blob/master"

// BannerMarker identifies a MarkdownSnippets generated-file banner.
const BannerMarker = "GENERATED FILE - DO NOT EDIT"

// ErrBannerRemains is returned when the generated-file marker is still
// present after the expected banner was removed. The source no longer has
// the banner shape RenderBanner produces.
var ErrBannerRemains = errors.New("generated-file banner still present after removal")

const backToUserGuide = "---\n" +
	"\n" +
	"[Back to User Guide](/doc/README.md#top)\n"

var (
	tocRegion = regexp.MustCompile(`(?s)<!-- toc -->.*?<!-- endtoc -->`)

	snippetSource = regexp.MustCompile(
		"<sup><a href='([^']+)' title=['\"]File snippet `[^`]+` was extracted from['\"]>snippet source</a> ")

	snippetAnchor = regexp.MustCompile(
		"\\| <a href='#snippet-[^']+' title=['\"]Navigate to start of snippet `[^`]+`['\"]>anchor</a></sup>")
)

// fenceRewrites maps fenced-code openings to their replacement. The
// surrounding newlines keep longer tags such as ```hpp untouched.
var fenceRewrites = []struct{ from, to string }{
	{"\n```h\n", "\n```cpp\n"},
	{"\n```txt\n", "\n```\n"},
}

// Rule is a single content rewrite. Rules never fail; banner checking is
// done by Transformer.Fixup itself.
type Rule struct {
	Name  string
	Apply func(content string) string
}

// Transformer applies the fixup rules in a fixed order.
type Transformer struct {
	rules []Rule
}

// New returns a Transformer that rewrites snippet source links against
// snippetBaseURL. An empty base URL selects DefaultSnippetBaseURL.
func New(snippetBaseURL string) *Transformer {
	if snippetBaseURL == "" {
		snippetBaseURL = DefaultSnippetBaseURL
	}
	return &Transformer{
		rules: []Rule{
			{Name: "toc", Apply: RemoveTOC},
			{Name: "back-to-guide", Apply: RemoveBackToGuide},
			{Name: "snippet-source", Apply: func(s string) string { return RewriteSnippetSource(s, snippetBaseURL) }},
			{Name: "snippet-anchor", Apply: RemoveSnippetAnchors},
			{Name: "code-fence", Apply: NormalizeFences},
		},
	}
}

// Rules returns the names of the content rules in application order,
// after banner removal.
func (t *Transformer) Rules() []string {
	names := make([]string, len(t.rules))
	for i, r := range t.rules {
		names[i] = r.Name
	}
	return names
}

// Fixup removes the generated-file banner for (subdir, baseName) and then
// applies every content rule in order. It returns ErrBannerRemains, wrapped
// with the document location, if the banner marker survives removal.
func (t *Transformer) Fixup(subdir, baseName, content string) (string, error) {
	content, err := RemoveBanner(subdir, baseName, content)
	if err != nil {
		return "", err
	}
	for _, r := range t.rules {
		content = r.Apply(content)
	}
	return content, nil
}

// RenderBanner returns the banner MarkdownSnippets writes at the top of the
// generated file for baseName in subdir ("" for the doc root).
func RenderBanner(subdir, baseName string) string {
	pathComponent := ""
	if subdir != "" {
		pathComponent = subdir + "/"
	}
	return "<!--\n" +
		BannerMarker + "\n" +
		"This file was generated by [MarkdownSnippets](https://github.com/SimonCropp/MarkdownSnippets).\n" +
		fmt.Sprintf("Source File: /doc/%smdsource/%s.source.md\n", pathComponent, baseName) +
		"To change this file edit the source file and then execute ./run_markdown_templates.sh.\n" +
		"-->\n"
}

// RemoveBanner strips the first occurrence of the expected banner. A
// document without a banner is returned unchanged.
func RemoveBanner(subdir, baseName, content string) (string, error) {
	content = strings.Replace(content, RenderBanner(subdir, baseName), "", 1)
	if strings.Contains(content, BannerMarker) {
		return "", fmt.Errorf("%s: %w", documentName(subdir, baseName), ErrBannerRemains)
	}
	return content, nil
}

// RemoveTOC removes the first table-of-contents region, markers included.
func RemoveTOC(content string) string {
	loc := tocRegion.FindStringIndex(content)
	if loc == nil {
		return content
	}
	return content[:loc[0]] + content[loc[1]:]
}

// RemoveBackToGuide removes every "Back to User Guide" footer.
func RemoveBackToGuide(content string) string {
	return strings.ReplaceAll(content, backToUserGuide, "")
}

// RewriteSnippetSource turns each snippet source annotation into an inline
// "(See [snippet source](...))" citation. The captured path is appended to
// baseURL verbatim.
func RewriteSnippetSource(content, baseURL string) string {
	return snippetSource.ReplaceAllStringFunc(content, func(m string) string {
		path := snippetSource.FindStringSubmatch(m)[1]
		return "(See [snippet source](" + baseURL + path + "))"
	})
}

// RemoveSnippetAnchors drops the "anchor" links that close snippet
// annotations.
func RemoveSnippetAnchors(content string) string {
	return snippetAnchor.ReplaceAllString(content, "")
}

// NormalizeFences rewrites the h and txt code-fence languages. Each rewrite
// repeats until it no longer matches, since adjacent fences share the
// newline between them.
func NormalizeFences(content string) string {
	for _, fr := range fenceRewrites {
		for strings.Contains(content, fr.from) {
			content = strings.ReplaceAll(content, fr.from, fr.to)
		}
	}
	return content
}

func documentName(subdir, baseName string) string {
	if subdir == "" {
		return baseName
	}
	return subdir + "/" + baseName
}

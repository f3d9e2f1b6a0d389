// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/devtinder/devtinder-tui/internal/ui/styles"
)

// =============================================================================
// CODE IN CHAT MESSAGES
// =============================================================================

// Segment is a run of chat text: prose, or a fenced code block.
type Segment struct {
	Code     bool
	Language string
	Text     string
}

// SplitFences splits text on ``` fences. An unclosed fence runs to the end.
func SplitFences(text string) []Segment {
	var (
		out      []Segment
		buf      []string
		inCode   bool
		language string
	)
	flush := func() {
		if len(buf) == 0 {
			return
		}
		out = append(out, Segment{Code: inCode, Language: language, Text: strings.Join(buf, "\n")})
		buf = nil
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			flush()
			if inCode {
				inCode, language = false, ""
			} else {
				inCode = true
				language = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
			}
			continue
		}
		buf = append(buf, line)
	}
	flush()
	return out
}

// RenderMessageText renders chat text, highlighting fenced code with the
// theme's chroma style.
func RenderMessageText(theme *styles.Theme, text string, width int) string {
	segs := SplitFences(text)
	if len(segs) == 1 && !segs[0].Code {
		return segs[0].Text
	}
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		if !s.Code {
			parts = append(parts, s.Text)
			continue
		}
		block := Highlight(s.Text, s.Language, theme.ChromaStyle())
		style := theme.CodeBlock
		if width > 4 {
			style = style.MaxWidth(width)
		}
		parts = append(parts, style.Render(block))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Highlight applies chroma syntax highlighting for a 256-colour terminal.
// The code is returned unchanged when highlighting fails.
func Highlight(code, language, styleName string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

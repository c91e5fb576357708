// Package latex assembles worksheet documents as LaTeX source.
package latex

import (
	"strings"
	"text/template"
)

// ItemDelimiter separates problems inside a question or answer block.
const ItemDelimiter = "\n\n"

// Options controls how block text is embedded in the source.
type Options struct {
	// Escape replaces LaTeX special characters in the header and in every
	// item. When false, text is embedded verbatim and a stray "%", "&" or
	// "_" can break compilation.
	Escape bool
}

// Document is a worksheet: a header, the question items and the answer key
// items, plus the LaTeX source derived from them.
type Document struct {
	Header    string
	Questions []string
	Answers   []string

	// Source is the complete LaTeX document. It depends only on the fields
	// above and the Options used to build it.
	Source string
}

// Mismatch reports whether the question and answer lists differ in length.
// Such documents still build; the two lists simply have different lengths.
func (d *Document) Mismatch() bool {
	return len(d.Questions) != len(d.Answers)
}

// SplitItems splits a block on the blank-line delimiter and trims each item.
// A blank block yields a single empty item.
func SplitItems(block string) []string {
	parts := strings.Split(strings.TrimSpace(block), ItemDelimiter)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

var sourceTemplate = template.Must(template.New("worksheet").Parse(
	`\documentclass[12pt]{article}
\usepackage[margin=1in]{geometry}
\usepackage{amsmath, amssymb}
\usepackage{fancyhdr}
\usepackage{enumitem}

\pagestyle{fancy}
\fancyhf{}
\rhead{\thepage}
\lhead{ {{- .Header -}} }

\title{ {{- .Header -}} }
\author{}
\date{}

\begin{document}
\maketitle

\section*{Questions}
\begin{enumerate}[label=\textbf{\arabic*.}]
{{- range .Questions}}
  \item {{.}}
{{- end}}
\end{enumerate}

\newpage
\section*{Answer Key}
\begin{enumerate}[label=\textbf{\arabic*.}]
{{- range .Answers}}
  \item {{.}}
{{- end}}
\end{enumerate}

\end{document}
`))

// Build assembles the worksheet source from a header and two blocks of
// blank-line separated items. Items are numbered from 1 in each section in
// their original order. Counts are not cross-checked; see Document.Mismatch.
func Build(header, questions, answers string, opts Options) *Document {
	doc := &Document{
		Header:    header,
		Questions: SplitItems(questions),
		Answers:   SplitItems(answers),
	}

	view := struct {
		Header    string
		Questions []string
		Answers   []string
	}{
		Header:    doc.Header,
		Questions: doc.Questions,
		Answers:   doc.Answers,
	}
	if opts.Escape {
		view.Header = Escape(view.Header)
		view.Questions = escapeAll(view.Questions)
		view.Answers = escapeAll(view.Answers)
	}

	var b strings.Builder
	// The template is static and only ranges over strings, so Execute
	// cannot fail on a strings.Builder.
	_ = sourceTemplate.Execute(&b, view)
	doc.Source = b.String()
	return doc
}

func escapeAll(items []string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = Escape(it)
	}
	return out
}

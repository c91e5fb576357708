package render

// SampleSource is a minimal document for checking that the compiler is
// installed and working.
const SampleSource = `\documentclass{article}
\usepackage{amsmath}
\begin{document}
Hello, this is a test of rendering LaTeX to PDF.

Here's a math example:
\[
    \int_0^1 x^2 \, dx = \frac{1}{3}
\]
\end{document}
`

// SampleName is the base name SampleSource is rendered under.
const SampleName = "sample_render"

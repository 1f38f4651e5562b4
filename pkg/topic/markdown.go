package topic

import (
	"fmt"
	"strings"
)

// Markdown renders a record as a Markdown document for glamour or plain output.
func Markdown(r Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "*%s* · exam frequency %s\n\n", r.Difficulty, stars(r.ExamFrequency))

	b.WriteString("## Key points\n\n")
	for _, p := range r.KeyPoints {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	b.WriteString("\n")

	if len(r.ComplexityTable) > 0 {
		b.WriteString("## Complexity\n\n")
		b.WriteString("| Operation | Best | Average | Worst | Space |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, row := range r.ComplexityTable {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				row.Operation, dash(row.Best), dash(row.Average), row.Worst, dash(row.Space))
		}
		b.WriteString("\n")
	}

	if r.CodeExample != nil {
		b.WriteString("## Code\n\n")
		fmt.Fprintf(&b, "```%s\n%s\n```\n\n", r.CodeExample.Language, strings.TrimRight(r.CodeExample.Code, "\n"))
	}

	if len(r.CommonPitfalls) > 0 {
		b.WriteString("## Common pitfalls\n\n")
		for _, p := range r.CommonPitfalls {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}

	if r.Notes != "" {
		b.WriteString("## Notes\n\n")
		b.WriteString(r.Notes)
		b.WriteString("\n\n")
	}

	tracers, sims := Demos(r.Kind)
	if len(r.Algorithms) > 0 {
		tracers = r.Algorithms
	}
	if len(tracers) > 0 || len(sims) > 0 {
		b.WriteString("## Try it\n\n")
		for _, k := range tracers {
			fmt.Fprintf(&b, "- `stepwise play %s`\n", k)
		}
		for _, s := range sims {
			fmt.Fprintf(&b, "- `stepwise simulate %s`\n", s)
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func stars(n int) string {
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

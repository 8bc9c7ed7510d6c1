package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	passGreen = lipgloss.Color("#A8E6CF")
	failRed   = lipgloss.Color("#FFB3BA")
	mutedGray = lipgloss.Color("#6B7280")

	headerStyle = lipgloss.NewStyle().Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(passGreen)
	failStyle   = lipgloss.NewStyle().Foreground(failRed).Bold(true)
	detailStyle = lipgloss.NewStyle().Foreground(mutedGray)
)

// Summary renders the terminal summary for the run: one line per scenario
// plus the totals, failures last so they end up nearest the prompt.
func (r *Run) Summary() string {
	r.mu.Lock()
	scenarios := make([]*Scenario, len(r.scenarios))
	copy(scenarios, r.scenarios)
	r.mu.Unlock()

	sort.Slice(scenarios, func(i, j int) bool {
		if scenarios[i].Status != scenarios[j].Status {
			return scenarios[i].Status == StatusPassed
		}
		return scenarios[i].Name < scenarios[j].Name
	})

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("run %s", r.id)))
	b.WriteString("\n")

	passed, failed := 0, 0
	for _, s := range scenarios {
		dur := detailStyle.Render(s.Duration().Round(time.Millisecond).String())
		if s.Status == StatusPassed {
			passed++
			b.WriteString(fmt.Sprintf("  %s %s %s\n", passStyle.Render("PASS"), s.Name, dur))
			continue
		}
		failed++
		b.WriteString(fmt.Sprintf("  %s %s %s\n", failStyle.Render("FAIL"), s.Name, dur))
		if s.Err != "" {
			b.WriteString(detailStyle.Render("       "+s.Err) + "\n")
		}
	}

	total := fmt.Sprintf("%d passed, %d failed", passed, failed)
	if failed > 0 {
		b.WriteString(failStyle.Render(total))
	} else {
		b.WriteString(passStyle.Render(total))
	}
	b.WriteString("\n")
	return b.String()
}

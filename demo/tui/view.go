package tui

import (
	"fmt"
	"strings"

	"clipcast/types"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("🎬 ClipCast Upload Monitor"))
	b.WriteString("\n\n")

	if m.JobUUID != "" && !m.Connected {
		b.WriteString(ErrorStyle.Render("❌ Not connected to server"))
		b.WriteString("\n\n")
	}

	// Current stage
	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	// Chunk progress bar
	if m.ChunkAll > 0 {
		b.WriteString(InfoStyle.Render(progressBar(m.ChunkDone, m.ChunkAll)))
		b.WriteString("\n\n")
	}

	// Logs
	if len(m.Logs) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		for _, entry := range m.Logs {
			line := fmt.Sprintf("   %s %s", entry.Timestamp.Format("15:04:05"), entry.Message)
			b.WriteString(InfoStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Result
	if m.Stage == types.StagePublished && m.Result != nil {
		result := HighlightStyle.Render("Published") + "\n\n" +
			fmt.Sprintf("ID:  %s\n", m.Result.ID)
		if m.Result.URL != "" {
			result += fmt.Sprintf("URL: %s\n", m.Result.URL)
		}
		b.WriteString(BoxStyle.Render(result))
		b.WriteString("\n\n")
	}

	// Help text
	if m.Stage == types.StageIdle && m.JobUUID == "" {
		b.WriteString(InfoStyle.Render("Press 'u' to upload | Press 'q' or Ctrl+C to quit"))
	} else {
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit"))
	}

	return b.String()
}

// progressBar renders a fixed-width bar like [██████░░░░] 6/10
func progressBar(done, total int) string {
	const width = 20
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %d/%d chunks",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		done, total)
}

package console

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"waverefresh/internal/collector"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"

	labelWidth = 22
)

// Print renders one snapshot to the writer in a compact, grouped format.
// Escape codes are left out when color is false.
func Print(w io.Writer, snap collector.Snapshot, color bool) {
	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + colorReset
	}

	fmt.Fprintf(w, "%s\n", paint(colorCyan, "■ WAVEREFRESH SNAPSHOT "+snap.TakenAt.Format("2006-01-02 15:04:05")))

	for _, group := range groupBySensor(snap.Items) {
		fmt.Fprintf(w, "%s\n", paint(colorCyan, "─ "+group[0].Sensor))
		for _, it := range group {
			label := truncate(it.Label, labelWidth-2)
			dots := strings.Repeat("·", labelWidth-utf8.RuneCountInString(label))
			fmt.Fprintf(w, "  %s%s %s\n", label, paint(colorCyan, dots), it.Value)
		}
	}

	summary := fmt.Sprintf("%d items in %s", len(snap.Items), snap.Duration.Round(time.Millisecond))
	if len(snap.Failed) > 0 {
		summary += " | " + paint(colorRed, "failed: "+strings.Join(snap.Failed, ", "))
	}
	fmt.Fprintf(w, "%s: %s\n\n", paint(colorCyan, "─ Summary"), summary)
}

// groupBySensor keeps the first-seen order of sensors and of items within
// each sensor.
func groupBySensor(items []collector.Item) [][]collector.Item {
	index := make(map[string]int)
	var groups [][]collector.Item
	for _, it := range items {
		i, ok := index[it.Sensor]
		if !ok {
			i = len(groups)
			index[it.Sensor] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], it)
	}
	return groups
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidUsername is returned for names that could pass as a command
// line option or a path
var ErrInvalidUsername = errors.New("invalid username")

// ValidateUsername rejects empty names, names starting with "-" and
// names containing path separators or ".."
func ValidateUsername(username string) error {
	if username == "" ||
		strings.HasPrefix(username, "-") ||
		strings.ContainsAny(username, `/\`) ||
		strings.Contains(username, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}
	return nil
}

// searchDecorations are progress-bar and table characters the search tool
// prints around its findings
var searchDecorations = strings.NewReplacer(
	"|", "",
	"▁", "", "▂", "", "▃", "", "▄", "", "▅", "", "▆", "", "▇", "", "█", "",
	"▏", "", "▎", "", "▍", "",
	"[", "", "]", "",
	"%", "",
	"Searching", "",
)

// ParseSearchOutput extracts positive matches from the search tool output.
// A positive line carries a URL and either a check mark or a [+] marker.
func ParseSearchOutput(output string) []string {
	var sites []string
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(strings.ToLower(line), "http") {
			continue
		}
		if !strings.Contains(line, "✓") && !strings.Contains(line, "[+]") {
			continue
		}
		clean := strings.Join(strings.Fields(searchDecorations.Replace(line)), " ")
		if clean != "" && strings.Contains(clean, "http") {
			sites = append(sites, clean)
		}
	}
	return sites
}

// SearchReport is the result of a username search
type SearchReport struct {
	Username    string
	Sites       []string
	GeneratedAt time.Time
}

// NewSearchReport creates a search report
func NewSearchReport(username string, sites []string, at time.Time) *SearchReport {
	return &SearchReport{Username: username, Sites: sites, GeneratedAt: at}
}

// FileName returns the report file name
func (r *SearchReport) FileName() string {
	return fmt.Sprintf("search_results_%s.txt", r.Username)
}

// Text renders the full report file content
func (r *SearchReport) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 Search Results for @%s\n", r.Username)
	fmt.Fprintf(&sb, "📅 Date: %s\n", r.GeneratedAt.Format(TimestampLayout))
	fmt.Fprintf(&sb, "📊 Total found: %d sites\n", len(r.Sites))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	for i, site := range r.Sites {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, site)
	}
	return sb.String()
}

// Preview renders the short status text with the first limit matches
func (r *SearchReport) Preview(limit int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Found @%s on %d sites!\n\n", r.Username, len(r.Sites))
	fmt.Fprintf(&sb, "Top %d results:\n", limit)
	for i, site := range r.Sites {
		if i >= limit {
			break
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, site)
	}
	if len(r.Sites) > limit {
		fmt.Fprintf(&sb, "\n... and %d more sites.", len(r.Sites)-limit)
	}
	sb.WriteString("\n\n📄 Full report sent as file")
	return sb.String()
}

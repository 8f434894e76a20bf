package parser

import (
	"regexp"
	"strconv"
)

// The ingestion script reports progress as free-form Russian log lines.
// These patterns are a best-effort contract with that external format:
// lines that do not match are ignored and counters keep their last
// known value.
var (
	processedPattern = regexp.MustCompile(`Обработано сообщений: (\d+)`)
	savedPattern     = regexp.MustCompile(`Сохранено новых: (\d+)`)
)

// ParseProcessed extracts the "messages processed" counter from one
// output line. The second return is false when the line carries no
// counter.
func ParseProcessed(line string) (int64, bool) {
	return matchCounter(processedPattern, line)
}

// ParseSaved extracts the "new messages saved" counter from one output
// line.
func ParseSaved(line string) (int64, bool) {
	return matchCounter(savedPattern, line)
}

func matchCounter(pattern *regexp.Regexp, line string) (int64, bool) {
	m := pattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

package deck

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/aristath/stockpitch/internal/modules/valuation"
)

var reportScriptPattern = regexp.MustCompile(
	`(?s)<script type="application/json" id="` + reportScriptID + `">\s*(.*?)\s*</script>`)

// ReadReport extracts the embedded valuation report from a rendered deck file
func ReadReport(path string) (*valuation.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck file: %w", err)
	}

	return ParseReport(data)
}

// ParseReport extracts the embedded valuation report from rendered deck HTML
func ParseReport(html []byte) (*valuation.Report, error) {
	m := reportScriptPattern.FindSubmatch(html)
	if m == nil {
		return nil, fmt.Errorf("no embedded valuation report found")
	}

	var report valuation.Report
	if err := json.Unmarshal(m[1], &report); err != nil {
		return nil, fmt.Errorf("parsing embedded report: %w", err)
	}

	return &report, nil
}

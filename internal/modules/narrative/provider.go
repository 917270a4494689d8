package narrative

import (
	"context"

	"github.com/aristath/stockpitch/internal/modules/analysis"
	"github.com/aristath/stockpitch/internal/modules/valuation"
)

// Mode identifies which narrative path produced the text
const (
	ModeTemplate = "template"
	ModePremium  = "premium"
)

// Input carries everything a provider may draw on
type Input struct {
	Report     *valuation.Report
	Technicals analysis.Snapshot
	Industry   string
	Country    string
}

// Narrative is the text content of a pitch. Highlights and Risks are
// bullet lists; DetailedAnalysis is markdown rendered onto its own
// slide.
type Narrative struct {
	ExecutiveSummary string   `json:"executive_summary"`
	InvestmentThesis string   `json:"investment_thesis"`
	Highlights       []string `json:"highlights"`
	Risks            []string `json:"risks"`
	DetailedAnalysis string   `json:"detailed_analysis,omitempty"`

	Mode            string `json:"mode"`
	Downgraded      bool   `json:"downgraded,omitempty"`
	DowngradeReason string `json:"downgrade_reason,omitempty"`
}

// Provider generates pitch narrative text from a valuation report.
// Implementations must be safe for concurrent use.
type Provider interface {
	Generate(ctx context.Context, input Input) (*Narrative, error)
	Mode() string
}

package pitch

import (
	"time"

	"github.com/aristath/stockpitch/internal/modules/analysis"
	"github.com/aristath/stockpitch/internal/modules/narrative"
	"github.com/aristath/stockpitch/internal/modules/valuation"
)

// Request is a pitch generation request. Overrides are optional; Mode
// is "template", "premium" or empty for the best available mode.
type Request struct {
	Ticker    string              `json:"ticker"`
	Mode      string              `json:"mode,omitempty"`
	Overrides valuation.Overrides `json:"overrides"`
}

// Result is the outcome of a pitch generation run
type Result struct {
	Ticker      string               `json:"ticker"`
	GeneratedAt time.Time            `json:"generated_at"`
	Report      *valuation.Report    `json:"report"`
	Narrative   *narrative.Narrative `json:"narrative"`
	Technicals  analysis.Snapshot    `json:"technicals"`
	DeckPath    string               `json:"deck_path"`
}

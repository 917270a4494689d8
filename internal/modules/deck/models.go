package deck

import "time"

// Slide kinds, in presentation order
const (
	SlideTitle          = "title"
	SlideExecSummary    = "executive_summary"
	SlideCompany        = "company_overview"
	SlideFinancials     = "financial_analysis"
	SlideDCF            = "dcf_wacc_detail"
	SlideThesis         = "investment_thesis"
	SlideRisks          = "risk_analysis"
	SlideRecommendation = "recommendation"
	SlideDisclaimer     = "disclaimer"
)

// Slide is one page of the pitch. Body is markdown; the renderer
// converts it to HTML.
type Slide struct {
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Body     string `json:"body"`
}

// Deck is a complete pitch presentation
type Deck struct {
	Ticker      string    `json:"ticker"`
	CompanyName string    `json:"company_name"`
	GeneratedAt time.Time `json:"generated_at"`
	Mode        string    `json:"mode"`
	Downgraded  bool      `json:"downgraded,omitempty"`
	Slides      []Slide   `json:"slides"`
}

package risk

type WarningType string

const (
	TypePositionLimit WarningType = "position_limit"
	TypeRiskLimit     WarningType = "risk_limit"
	TypeConsistency   WarningType = "consistency"
	TypeInfo          WarningType = "info"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Warning is one finding of the validator. Warnings are created per call
// and never modified afterwards.
type Warning struct {
	Type       WarningType `json:"type"`
	Severity   Severity    `json:"severity"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

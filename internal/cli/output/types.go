package output

// LintOutput is the JSON document printed by `ttcnlint lint -o json`.
type LintOutput struct {
	Files   []LintFileResult `json:"files"`
	Errors  []string         `json:"errors,omitempty"`
	Summary LintSummary      `json:"summary"`
}

// LintFileResult holds the problems of one file.
type LintFileResult struct {
	Path     string        `json:"path"`
	Problems []LintProblem `json:"problems"`
}

// LintProblem is one reported problem.
type LintProblem struct {
	Rule        string `json:"rule"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Begin       int    `json:"begin"`
	End         int    `json:"end"`
	Fixable     bool   `json:"fixable"`
}

// LintSummary totals a lint run.
type LintSummary struct {
	Files      int `json:"files"`
	Problems   int `json:"problems"`
	Errors     int `json:"errors"`
	Warnings   int `json:"warnings"`
	Info       int `json:"info"`
	Hints      int `json:"hints"`
	Fixed      int `json:"fixed"`
	Suppressed int `json:"suppressed"`
}

// RuleOutput describes a rule for `ttcnlint rules -o json`.
type RuleOutput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Severity    string   `json:"severity"`
	Fixable     bool     `json:"fixable"`
	Disabled    bool     `json:"disabled"`
	WholeFile   bool     `json:"whole_file"`
	Kinds       []string `json:"kinds,omitempty"`
	Options     []string `json:"options,omitempty"`
	DocURL      string   `json:"doc_url,omitempty"`
}

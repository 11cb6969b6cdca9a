package paymentgateway

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

func (o Outcome) IsSuccess() bool {
	return o == OutcomeSuccess
}

func (o Outcome) String() string {
	return string(o)
}

// StatusTable maps provider status codes to outcomes. Codes that are not
// listed resolve to Default.
type StatusTable struct {
	Codes   map[int]Outcome
	Default Outcome
}

func (t StatusTable) Resolve(code int) Outcome {
	if o, ok := t.Codes[code]; ok {
		return o
	}
	if t.Default == "" {
		return OutcomeFailure
	}
	return t.Default
}

// Kassa24StatusTable: 1 is success; 0 (failure), 2 (hold) and 3 (cancel)
// are all treated as failure.
func Kassa24StatusTable() StatusTable {
	return StatusTable{
		Codes:   map[int]Outcome{1: OutcomeSuccess},
		Default: OutcomeFailure,
	}
}

package dispatch

// Outcome is the result of one attempted address.
// Addresses that were never attempted have no outcome.
type Outcome struct {
	Address string
	Detail  string // transport error message, empty on success
	Failed  bool
}

// Summary is the final tally of a run.
type Summary struct {
	Sent    int     `json:"sent"`
	Failed  int     `json:"failed"`
	Invalid int     `json:"invalid"`
	Details Details `json:"details"`
}

// Details lists the addresses behind each Summary counter.
type Details struct {
	Sent    []string  `json:"sent"`
	Failed  []Failure `json:"failed"`
	Invalid []string  `json:"invalid"`
}

// Failure pairs a failed address with the transport's error message.
type Failure struct {
	Address string `json:"email"`
	Error   string `json:"error"`
}

// Aggregate folds the outcomes of a run and its validation partition into a Summary.
// Slices in the result are never nil so they encode as empty JSON arrays.
func Aggregate(outcomes []Outcome, v ValidationResult) Summary {
	s := Summary{
		Details: Details{
			Sent:    make([]string, 0, len(outcomes)),
			Failed:  make([]Failure, 0),
			Invalid: make([]string, 0, len(v.Invalid)),
		},
	}

	for _, o := range outcomes {
		if o.Failed {
			s.Details.Failed = append(s.Details.Failed, Failure{Address: o.Address, Error: o.Detail})
			continue
		}
		s.Details.Sent = append(s.Details.Sent, o.Address)
	}
	s.Details.Invalid = append(s.Details.Invalid, v.Invalid...)

	s.Sent = len(s.Details.Sent)
	s.Failed = len(s.Details.Failed)
	s.Invalid = len(s.Details.Invalid)
	return s
}

package domain

// ConferenceFilter is one user-supplied (field, operator, value) triple.
type ConferenceFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// FilterField is a queryable conference field.
type FilterField string

const (
	FilterFieldCity         FilterField = "city"
	FilterFieldTopic        FilterField = "topic"
	FilterFieldMonth        FilterField = "month"
	FilterFieldMaxAttendees FilterField = "maxAttendees"
)

// FilterOperator is a comparison operator.
type FilterOperator string

const (
	OpEqual          FilterOperator = "="
	OpGreater        FilterOperator = ">"
	OpGreaterOrEqual FilterOperator = ">="
	OpLess           FilterOperator = "<"
	OpLessOrEqual    FilterOperator = "<="
	OpNotEqual       FilterOperator = "!="
)

// IsInequality reports whether op is anything other than equality.
func (op FilterOperator) IsInequality() bool {
	return op != OpEqual
}

// Predicate is a validated filter. Value is a string for city and topic, an int for month and maxAttendees.
type Predicate struct {
	Field    FilterField
	Operator FilterOperator
	Value    any
}

// QueryPlan is a compiled conference query: predicates are ANDed, results are
// ordered by OrderBy. InequalityField is empty when every predicate is an equality.
type QueryPlan struct {
	Predicates      []Predicate
	InequalityField FilterField
	OrderBy         []FilterField
	Limit           int
	Offset          int
}

// OrderByName is the secondary (or only) sort key of every plan.
const OrderByName FilterField = "name"

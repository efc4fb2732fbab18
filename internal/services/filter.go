package services

import (
	"fmt"
	"strconv"
	"strings"

	"conferencecentral/internal/domain"
)

var filterFields = map[string]domain.FilterField{
	"city":          domain.FilterFieldCity,
	"topic":         domain.FilterFieldTopic,
	"month":         domain.FilterFieldMonth,
	"maxattendees":  domain.FilterFieldMaxAttendees,
	"max_attendees": domain.FilterFieldMaxAttendees,
}

var filterOperators = map[string]domain.FilterOperator{
	"=":    domain.OpEqual,
	"eq":   domain.OpEqual,
	">":    domain.OpGreater,
	"gt":   domain.OpGreater,
	">=":   domain.OpGreaterOrEqual,
	"gteq": domain.OpGreaterOrEqual,
	"<":    domain.OpLess,
	"lt":   domain.OpLess,
	"<=":   domain.OpLessOrEqual,
	"lteq": domain.OpLessOrEqual,
	"!=":   domain.OpNotEqual,
	"ne":   domain.OpNotEqual,
}

// CompileFilters validates conference filters and turns them into a query
// plan. Inequality operators may be used on one field only; results are
// ordered by that field first and then by name.
func CompileFilters(filters []domain.ConferenceFilter) (*domain.QueryPlan, error) {
	plan := &domain.QueryPlan{Predicates: make([]domain.Predicate, 0, len(filters))}
	for _, f := range filters {
		field, ok := filterFields[strings.ToLower(strings.TrimSpace(f.Field))]
		if !ok {
			return nil, fmt.Errorf("%w: filter contains invalid field %q", domain.ErrInvalidInput, f.Field)
		}
		op, ok := filterOperators[strings.ToLower(strings.TrimSpace(f.Operator))]
		if !ok {
			return nil, fmt.Errorf("%w: filter contains invalid operator %q", domain.ErrInvalidInput, f.Operator)
		}
		value, err := filterValue(field, f.Value)
		if err != nil {
			return nil, err
		}
		if op.IsInequality() {
			if plan.InequalityField != "" && plan.InequalityField != field {
				return nil, fmt.Errorf("%w: Inequality filter is allowed on only one field", domain.ErrInvalidInput)
			}
			plan.InequalityField = field
		}
		plan.Predicates = append(plan.Predicates, domain.Predicate{Field: field, Operator: op, Value: value})
	}
	if plan.InequalityField != "" {
		plan.OrderBy = append(plan.OrderBy, plan.InequalityField)
	}
	plan.OrderBy = append(plan.OrderBy, domain.OrderByName)
	return plan, nil
}

func filterValue(field domain.FilterField, raw string) (any, error) {
	switch field {
	case domain.FilterFieldMonth, domain.FilterFieldMaxAttendees:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: filter value %q for %s must be an integer", domain.ErrInvalidInput, raw, field)
		}
		return n, nil
	}
	return raw, nil
}

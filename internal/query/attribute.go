// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package query

import (
	"strings"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/pkg/constants"
	"github.com/iudx/catalogue-service/pkg/errors"
)

// analyzedFields are matched on their analyzed form rather than the keyword sub-field.
var analyzedFields = map[string]struct{}{
	"tags":        {},
	"description": {},
}

const locationPrefix = "location"

// attributeClauses returns one should-disjunction per property, AND-ed by the caller.
func attributeClauses(properties []string, values [][]string) ([]model.Clause, error) {
	if len(properties) != len(values) {
		return nil, errors.NewValidationReason(ReasonInvalidParameter, "property and value must have the same length")
	}

	clauses := make([]model.Clause, 0, len(properties))
	for i, property := range properties {
		if len(values[i]) == 0 {
			// an empty should matches every document
			return nil, errors.NewValidationReason(ReasonInvalidParameter, "value for property "+property+" must not be empty")
		}
		field := matchField(property)
		should := make([]model.Clause, 0, len(values[i]))
		for _, v := range values[i] {
			should = append(should, model.MatchClause(field, v))
		}
		clauses = append(clauses, model.Clause{Bool: &model.ShouldQuery{Should: should}})
	}
	return clauses, nil
}

func matchField(property string) string {
	if _, ok := analyzedFields[property]; ok || strings.HasPrefix(property, locationPrefix) {
		return property
	}
	return keyword(property)
}

func keyword(field string) string {
	if strings.HasSuffix(field, constants.KeywordSuffix) {
		return field
	}
	return field + constants.KeywordSuffix
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package query

import (
	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/pkg/constants"
)

// ExistenceQuery looks up the handle of the document with the given id
// without fetching its body.
func ExistenceQuery(id string) *model.CompiledQuery {
	q := model.NewCompiledQuery()
	size := constants.ExistenceCheckSize
	q.Size = &size
	q.Source = &model.SourceFilter{Disabled: true}
	q.SeqNoPrimaryTerm = true
	q.Query.Bool.Must = append(q.Query.Bool.Must, model.TermClause(keyword(constants.IDField), id))
	return q
}

// ItemQuery fetches the full document with the given id.
func ItemQuery(id string) *model.CompiledQuery {
	q := model.NewCompiledQuery()
	size := constants.ExistenceCheckSize
	q.Size = &size
	q.Query.Bool.Must = append(q.Query.Bool.Must, model.TermClause(keyword(constants.IDField), id))
	return q
}

// MustQuery wraps the given clauses, with an optional projection.
func MustQuery(source []string, clauses ...model.Clause) *model.CompiledQuery {
	q := model.NewCompiledQuery()
	q.Query.Bool.Must = append(q.Query.Bool.Must, clauses...)
	if source != nil {
		q.Source = &model.SourceFilter{Fields: source}
	}
	return q
}

// ItemTypeClause restricts matches to one item type.
func ItemTypeClause(itemType model.ItemType) model.Clause {
	return model.TermClause(keyword(constants.ItemTypeField), string(itemType))
}

// KeywordTerm is an exact match against the keyword form of field.
func KeywordTerm(field, value string) model.Clause {
	return model.TermClause(keyword(field), value)
}

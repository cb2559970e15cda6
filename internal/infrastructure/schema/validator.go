// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package schema validates catalogue documents against the JSON schema of their item type.
package schema

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iudx/catalogue-service/pkg/errors"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"
)

const reasonInvalidItem = "invalid-item"

//go:embed schemas/*.json schemas/refs/*.json
var embedded embed.FS

// Validator holds one compiled schema per item type
type Validator struct {
	schemaValidators map[string]*gojsonschema.Schema
}

// NewDefaultValidator compiles the schemas shipped with the service.
func NewDefaultValidator() (*Validator, error) {
	return NewValidatorFromFS(embedded, "schemas")
}

// NewValidatorFromFS compiles every top-level .json file under root, using the
// files under root/refs as reference schemas.
func NewValidatorFromFS(fsys embed.FS, root string) (*Validator, error) {

	readDir := func(dir string) ([]string, error) {
		var strs []string
		files, err := fsys.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("cannot read dir %w", err)
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
				continue
			}
			str, err := fsys.ReadFile(dir + "/" + f.Name())
			if err != nil {
				return nil, fmt.Errorf("cannot read file '%s' %w", f.Name(), err)
			}
			strs = append(strs, string(str))
		}
		return strs, nil
	}

	schemas, err := readDir(root)
	if err != nil {
		return nil, err
	}
	refs, err := readDir(root + "/refs")
	if err != nil {
		return nil, err
	}
	return NewValidator(schemas, refs)
}

// NewValidator compiles schemas keyed by their x-itemType annotation. Each
// schema may reference any of refs.
func NewValidator(schemas []string, refs []string) (*Validator, error) {
	type header struct {
		ID       string `json:"$id"`
		ItemType string `json:"x-itemType"`
	}

	v := &Validator{schemaValidators: make(map[string]*gojsonschema.Schema)}
	for _, str := range schemas {
		h := header{}
		if err := json.Unmarshal([]byte(str), &h); err != nil {
			return nil, fmt.Errorf("parse error '%v' in schema", err)
		}
		if h.ItemType == "" {
			return nil, fmt.Errorf("schema %s does not declare x-itemType", h.ID)
		}

		sl := gojsonschema.NewSchemaLoader()
		for _, ref := range refs {
			if err := sl.AddSchemas(gojsonschema.NewStringLoader(ref)); err != nil {
				return nil, fmt.Errorf("cannot add ref: %w", err)
			}
		}
		compiled, err := sl.Compile(gojsonschema.NewStringLoader(str))
		if err != nil {
			return nil, fmt.Errorf("cannot compile schema %s: %w", h.ID, err)
		}
		v.schemaValidators[h.ItemType] = compiled
	}
	return v, nil
}

// HasSchema returns true if itemType is known
func (v *Validator) HasSchema(itemType string) bool {
	_, ok := v.schemaValidators[itemType]
	return ok
}

// Validate implements port.ItemValidator. Failures are Validation errors
// listing every violated rule.
func (v *Validator) Validate(ctx context.Context, itemType string, document []byte) error {
	compiled, ok := v.schemaValidators[itemType]
	if !ok {
		return errors.NewValidationReason(reasonInvalidItem, fmt.Sprintf("there is no schema for %s", itemType))
	}

	result, err := compiled.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return errors.NewValidationReason(reasonInvalidItem, "document is not valid JSON", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		slog.DebugContext(ctx, "item failed schema validation",
			"item_type", itemType,
			"errors", details,
		)
		return errors.NewValidationReason(reasonInvalidItem, "the document is not valid: "+strings.Join(details, "; "))
	}
	return nil
}

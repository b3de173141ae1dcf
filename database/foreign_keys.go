/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

var validReferentialActions = []string{"CASCADE", "RESTRICT", "SET NULL", "NO ACTION"}

// ForeignKeyConstraint describes a column referencing another table.
// The owning table is the model the constraint is registered with.
type ForeignKeyConstraint struct {
	Column          string
	ReferenceTable  string
	ReferenceColumn string
	OnDelete        string // CASCADE, RESTRICT, SET NULL, NO ACTION
	OnUpdate        string
}

// References is shorthand for a constraint with ON DELETE CASCADE.
func References(column, refTable, refColumn string) ForeignKeyConstraint {
	return ForeignKeyConstraint{
		Column:          column,
		ReferenceTable:  refTable,
		ReferenceColumn: refColumn,
		OnDelete:        "CASCADE",
	}
}

// Validate checks the constraint for empty names and unknown actions.
func (fk ForeignKeyConstraint) Validate() error {
	if fk.Column == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	if fk.ReferenceTable == "" {
		return fmt.Errorf("reference table name cannot be empty: %s", fk.Column)
	}
	if fk.ReferenceColumn == "" {
		return fmt.Errorf("reference column name cannot be empty: %s -> %s", fk.Column, fk.ReferenceTable)
	}
	for _, action := range []string{fk.OnDelete, fk.OnUpdate} {
		if action != "" && !isReferentialAction(action) {
			return fmt.Errorf("invalid referential action %q on %s", action, fk.Column)
		}
	}
	return nil
}

// apply adds the FOREIGN KEY clause to a CREATE TABLE query.
func (fk ForeignKeyConstraint) apply(q *bun.CreateTableQuery) *bun.CreateTableQuery {
	clause := "(?) REFERENCES ? (?)"
	if fk.OnDelete != "" {
		clause += " ON DELETE " + strings.ToUpper(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		clause += " ON UPDATE " + strings.ToUpper(fk.OnUpdate)
	}
	return q.ForeignKey(clause,
		bun.Ident(fk.Column),
		bun.Ident(fk.ReferenceTable),
		bun.Ident(fk.ReferenceColumn),
	)
}

func isReferentialAction(action string) bool {
	for _, a := range validReferentialActions {
		if strings.EqualFold(action, a) {
			return true
		}
	}
	return false
}

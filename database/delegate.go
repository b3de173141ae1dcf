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
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/tomoncle/kiln/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
)

const updatedAtColumn = "updated_at"

// Delegate executes the eleven CRUD operations for one model over Bun.
// A Delegate is stateless apart from its handle and safe for concurrent use.
type Delegate[T any] struct {
	db bun.IDB
}

// NewDelegate returns a delegate for T. db may be a *bun.DB or a bun.Tx.
func NewDelegate[T any](db bun.IDB) *Delegate[T] {
	return &Delegate[T]{db: db}
}

func (d *Delegate[T]) Create(ctx context.Context, args types.CreateArgs[T]) (*T, error) {
	if args.Data == nil {
		return nil, fmt.Errorf("%w: create requires data", types.ErrInvalidQuery)
	}
	row := args.Data
	err := d.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return err
		}
		return tx.NewSelect().Model(row).WherePK().Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (d *Delegate[T]) CreateMany(ctx context.Context, args types.CreateManyArgs[T]) (types.BatchPayload, error) {
	if len(args.Data) == 0 {
		return types.BatchPayload{}, nil
	}

	rows := args.Data
	q := d.db.NewInsert().Model(&rows)
	if args.SkipDuplicates {
		features := d.db.Dialect().Features()
		switch {
		case features.Has(feature.InsertOnConflict):
			q = q.On("CONFLICT DO NOTHING")
		case features.Has(feature.InsertIgnore):
			q = q.Ignore()
		}
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return types.BatchPayload{}, err
	}
	return batchPayload(res)
}

func (d *Delegate[T]) Count(ctx context.Context, args types.CountArgs) (int, error) {
	q := d.db.NewSelect().Model((*T)(nil))
	applyWhere(q.QueryBuilder(), args.Where, args.Filter)
	return q.Count(ctx)
}

// FindUnique returns (nil, nil) when no row matches.
func (d *Delegate[T]) FindUnique(ctx context.Context, args types.FindUniqueArgs) (*T, error) {
	if len(args.Where) == 0 {
		return nil, fmt.Errorf("%w: findUnique requires a where clause", types.ErrInvalidQuery)
	}

	row := new(T)
	q := d.db.NewSelect().Model(row)
	if len(args.Select) > 0 {
		q = q.Column(args.Select...)
	}
	applyWhere(q.QueryBuilder(), args.Where, nil)
	return scanOne(ctx, q.Limit(1), row)
}

// FindFirst returns the first row of FindMany, or (nil, nil).
func (d *Delegate[T]) FindFirst(ctx context.Context, args types.FindManyArgs) (*T, error) {
	row := new(T)
	q := d.db.NewSelect().Model(row)
	args.Take = 1
	applyFindMany(q, args)
	return scanOne(ctx, q, row)
}

// FindMany never returns a nil slice.
func (d *Delegate[T]) FindMany(ctx context.Context, args types.FindManyArgs) ([]*T, error) {
	rows := make([]*T, 0)
	q := d.db.NewSelect().Model(&rows)
	applyFindMany(q, args)
	if err := q.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return rows, nil
}

// Update applies Data to the single row matched by Where and returns it
// reloaded. types.ErrRecordNotFound is returned when nothing matches.
func (d *Delegate[T]) Update(ctx context.Context, args types.UpdateArgs) (*T, error) {
	if len(args.Where) == 0 {
		return nil, fmt.Errorf("%w: update requires a where clause", types.ErrInvalidQuery)
	}

	var row *T
	err := d.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		found, err := findForWrite[T](ctx, tx, args.Where)
		if err != nil {
			return err
		}
		if found == nil {
			return types.ErrRecordNotFound
		}
		row = found
		return d.updateRow(ctx, tx, row, args.Data)
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Upsert inserts Create when Where matches nothing, otherwise applies Update.
func (d *Delegate[T]) Upsert(ctx context.Context, args types.UpsertArgs[T]) (*T, error) {
	if len(args.Where) == 0 || args.Create == nil {
		return nil, fmt.Errorf("%w: upsert requires where and create", types.ErrInvalidQuery)
	}

	var row *T
	err := d.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		found, err := findForWrite[T](ctx, tx, args.Where)
		if err != nil {
			return err
		}
		if found != nil {
			row = found
			return d.updateRow(ctx, tx, row, args.Update)
		}

		row = args.Create
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return err
		}
		return tx.NewSelect().Model(row).WherePK().Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// UpdateMany applies Data to every matching row, or to all rows without a
// predicate.
func (d *Delegate[T]) UpdateMany(ctx context.Context, args types.UpdateManyArgs) (types.BatchPayload, error) {
	if len(args.Data) == 0 {
		return types.BatchPayload{}, nil
	}

	q := d.db.NewUpdate().Model((*T)(nil))
	for _, column := range args.Data.Keys() {
		q = q.Set("? = ?", bun.Ident(column), args.Data[column])
	}
	if d.touchesUpdatedAt(args.Data) {
		q = q.Set("? = ?", bun.Ident(updatedAtColumn), time.Now())
	}
	if !applyWhere(q.QueryBuilder(), args.Where, args.Filter) {
		q = q.Where("1 = 1")
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return types.BatchPayload{}, err
	}
	return batchPayload(res)
}

// Delete removes the single row matched by Where and returns it.
func (d *Delegate[T]) Delete(ctx context.Context, args types.DeleteArgs) (*T, error) {
	if len(args.Where) == 0 {
		return nil, fmt.Errorf("%w: delete requires a where clause", types.ErrInvalidQuery)
	}

	var row *T
	err := d.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		found, err := findForWrite[T](ctx, tx, args.Where)
		if err != nil {
			return err
		}
		if found == nil {
			return types.ErrRecordNotFound
		}
		row = found
		_, err = tx.NewDelete().Model(row).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (d *Delegate[T]) DeleteMany(ctx context.Context, args types.DeleteManyArgs) (types.BatchPayload, error) {
	q := d.db.NewDelete().Model((*T)(nil))
	if !applyWhere(q.QueryBuilder(), args.Where, args.Filter) {
		q = q.Where("1 = 1")
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return types.BatchPayload{}, err
	}
	return batchPayload(res)
}

func (d *Delegate[T]) updateRow(ctx context.Context, tx bun.Tx, row *T, data types.Fields) error {
	if len(data) > 0 {
		q := tx.NewUpdate().Model(row)
		for _, column := range data.Keys() {
			q = q.Set("? = ?", bun.Ident(column), data[column])
		}
		if d.touchesUpdatedAt(data) {
			q = q.Set("? = ?", bun.Ident(updatedAtColumn), time.Now())
		}
		if _, err := q.WherePK().Exec(ctx); err != nil {
			return err
		}
	}
	return tx.NewSelect().Model(row).WherePK().Scan(ctx)
}

// touchesUpdatedAt reports whether T has an updated_at column the caller
// did not set explicitly.
func (d *Delegate[T]) touchesUpdatedAt(data types.Fields) bool {
	if _, ok := data[updatedAtColumn]; ok {
		return false
	}
	table := d.db.Dialect().Tables().Get(reflect.TypeOf((*T)(nil)).Elem())
	return table != nil && table.HasField(updatedAtColumn)
}

func findForWrite[T any](ctx context.Context, tx bun.Tx, where types.Where) (*T, error) {
	row := new(T)
	q := tx.NewSelect().Model(row)
	applyWhere(q.QueryBuilder(), where, nil)
	return scanOne(ctx, q.Limit(1), row)
}

func scanOne[T any](ctx context.Context, q *bun.SelectQuery, row *T) (*T, error) {
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

func applyFindMany(q *bun.SelectQuery, args types.FindManyArgs) {
	if len(args.Select) > 0 {
		q.Column(args.Select...)
	}
	applyWhere(q.QueryBuilder(), args.Where, args.Filter)
	if len(args.OrderBy) > 0 {
		q.Order(args.OrderBy...)
	}
	if args.Skip > 0 {
		q.Offset(args.Skip)
		if args.Take <= 0 {
			// OFFSET without LIMIT is rejected by SQLite and MySQL.
			q.Limit(math.MaxInt32)
		}
	}
	if args.Take > 0 {
		q.Limit(args.Take)
	}
}

// applyWhere adds the equality predicate and raw filter to qb and reports
// whether any condition was added.
func applyWhere(qb bun.QueryBuilder, where types.Where, filter *types.QueryFilter) bool {
	applied := false
	for _, column := range where.Keys() {
		if value := where[column]; value == nil {
			qb.Where("? IS NULL", bun.Ident(column))
		} else {
			qb.Where("? = ?", bun.Ident(column), value)
		}
		applied = true
	}
	if filter != nil && filter.Schema != "" {
		qb.Where(filter.Schema, filter.Args...)
		applied = true
	}
	return applied
}

func batchPayload(res sql.Result) (types.BatchPayload, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return types.BatchPayload{}, err
	}
	return types.BatchPayload{Count: n}, nil
}

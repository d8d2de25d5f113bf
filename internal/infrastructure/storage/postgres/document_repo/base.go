// Package document_repo provides PostgreSQL implementations for document repositories.
// All statements run on the transaction carried by ctx when there is one.
package document_repo

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/entity"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres"
)

// header is implemented by every document header through entity.Document.
type header interface {
	SetIdentity(id int64, createdAt time.Time)
}

// BaseDocumentRepo provides insert and lookup for document headers.
type BaseDocumentRepo[T header] struct {
	txManager  *postgres.TxManager
	tableName  string
	entityName string
	selectCols []string
	newFn      func() T

	// uniqueField maps a constraint name to the request field it guards
	uniqueField map[string]string
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T header](
	txManager *postgres.TxManager,
	tableName, entityName string,
	selectCols []string,
	newFn func() T,
) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txManager:   txManager,
		tableName:   tableName,
		entityName:  entityName,
		selectCols:  selectCols,
		newFn:       newFn,
		uniqueField: map[string]string{},
	}
}

// Builder returns a new squirrel builder.
func (r *BaseDocumentRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseDocumentRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// insertQuery builds the header INSERT. Database-assigned columns are skipped
// and returned instead.
func (r *BaseDocumentRepo[T]) insertQuery(doc T) squirrel.InsertBuilder {
	return r.Builder().
		Insert(r.tableName).
		SetMap(postgres.InsertMap(doc, entity.InsertSkip...)).
		Suffix("RETURNING id, created_at")
}

// Create inserts the header and stores the assigned id on doc.
func (r *BaseDocumentRepo[T]) Create(ctx context.Context, doc T) error {
	sql, args, err := r.insertQuery(doc).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	var (
		newID     int64
		createdAt time.Time
	)
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&newID, &createdAt); err != nil {
		return r.mapError(err, "insert "+r.tableName)
	}

	doc.SetIdentity(newID, createdAt)
	return nil
}

// GetByID retrieves a document header by ID.
func (r *BaseDocumentRepo[T]) GetByID(ctx context.Context, docID int64) (T, error) {
	doc := r.newFn()
	q := r.Builder().
		Select(r.selectCols...).
		From(r.tableName).
		Where(squirrel.Eq{"id": docID})

	sql, args, err := q.ToSql()
	if err != nil {
		return doc, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return doc, apperror.NewNotFound(r.entityName, docID)
		}
		return doc, fmt.Errorf("get by id: %w", err)
	}

	return doc, nil
}

// mapError turns unique violations into DUPLICATE_ENTRY errors.
func (r *BaseDocumentRepo[T]) mapError(err error, op string) error {
	if constraint, ok := postgres.UniqueViolation(err); ok {
		field, known := r.uniqueField[constraint]
		if !known {
			field = constraint
		}
		return apperror.NewDuplicate(r.entityName, field, "").WithCause(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// itemColumns lists the insert columns of an item type, without its id.
func itemColumns[I any]() []string {
	return slices.DeleteFunc(postgres.ExtractDBColumns[I](), func(c string) bool { return c == "id" })
}

// itemsInsertQuery builds one multi-row INSERT for items. fkCol is set to
// parentID on every row. Rows come back in VALUES order.
func itemsInsertQuery[I any](b squirrel.StatementBuilderType, table, fkCol string, parentID int64, items []I) squirrel.InsertBuilder {
	cols := itemColumns[I]()
	q := b.Insert(table).Columns(cols...).Suffix("RETURNING id")

	for i := range items {
		row := postgres.InsertMap(&items[i], "id")
		row[fkCol] = parentID
		values := make([]any, len(cols))
		for j, c := range cols {
			values[j] = row[c]
		}
		q = q.Values(values...)
	}
	return q
}

// insertItems inserts want items and reports the assigned ids through setID.
// Anything but exactly want returned ids is an error.
func insertItems(ctx context.Context, q postgres.Querier, ib squirrel.InsertBuilder, table string, want int, setID func(i int, id int64)) error {
	sql, args, err := ib.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i == want {
			return fmt.Errorf("insert %s: more than %d ids returned", table, want)
		}
		var newID int64
		if err := rows.Scan(&newID); err != nil {
			return fmt.Errorf("scan %s id: %w", table, err)
		}
		setID(i, newID)
		i++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	if i != want {
		return fmt.Errorf("insert %s: %d ids returned for %d items", table, i, want)
	}
	return nil
}

// selectItems loads the items of a parent in line order.
func selectItems[I any](ctx context.Context, q postgres.Querier, b squirrel.StatementBuilderType, table, fkCol string, parentID int64) ([]I, error) {
	sql, args, err := b.
		Select(postgres.ExtractDBColumns[I]()...).
		From(table).
		Where(squirrel.Eq{fkCol: parentID}).
		OrderBy("line_number", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []I
	if err := pgxscan.Select(ctx, q, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return items, nil
}

package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type auditedRow struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

type headerRow struct {
	auditedRow
	Number   string  `db:"external_number"`
	Company  string  `db:"company_code"`
	Terms    *int64  `db:"terms_of_payment_id"`
	Internal string  `db:"-"`
	Ignored  float64 `json:"ignored"`
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[headerRow]()

	assert.Equal(t, []string{"id", "created_at", "external_number", "company_code", "terms_of_payment_id"}, cols)
}

func TestInsertMap_SkipsColumns(t *testing.T) {
	terms := int64(3)
	row := headerRow{
		auditedRow: auditedRow{ID: 99, CreatedAt: time.Now()},
		Number:     "0000000001",
		Company:    "1000",
		Terms:      &terms,
		Internal:   "secret",
	}

	m := InsertMap(&row, "id", "created_at")

	assert.Len(t, m, 3)
	assert.Equal(t, "0000000001", m["external_number"])
	assert.Equal(t, "1000", m["company_code"])
	assert.Equal(t, &terms, m["terms_of_payment_id"])
	assert.NotContains(t, m, "id")
	assert.NotContains(t, m, "created_at")
}

func TestInsertMap_NonStruct(t *testing.T) {
	assert.Nil(t, InsertMap(42))
}

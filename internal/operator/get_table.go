package operator

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dyod/columnstore/internal/catalog"
	"github.com/dyod/columnstore/internal/dtype"
	"github.com/dyod/columnstore/internal/table"
)

// GetTable is a leaf operator returning a catalog-resident table
// unchanged.
type GetTable struct {
	Base

	catalog   *catalog.Catalog
	tableName string
	log       *zap.Logger
}

// NewGetTable returns an operator that reads tableName out of cat when
// executed.
func NewGetTable(cat *catalog.Catalog, tableName string) *GetTable {
	return &GetTable{catalog: cat, tableName: tableName, log: noopLogger}
}

// SetLogger replaces the operator's logger.
func (g *GetTable) SetLogger(log *zap.Logger) { g.log = log }

// TableName returns the configured table name.
func (g *GetTable) TableName() string { return g.tableName }

// Execute implements Operator.
func (g *GetTable) Execute() error {
	out, err := g.onExecute()
	if err != nil {
		return err
	}
	return g.Finish(out)
}

func (g *GetTable) onExecute() (*table.Table, error) {
	if !g.catalog.Has(g.tableName) {
		return nil, fmt.Errorf("get_table: table %q: %w", g.tableName, dtype.ErrUnknownTable)
	}
	t, err := g.catalog.Get(g.tableName)
	if err != nil {
		return nil, err
	}
	g.log.Debug("get_table", zap.String("table", g.tableName), zap.Uint64("rows", t.RowCount()))
	return t, nil
}

package exports

import (
	apphttp "chauffeurtop_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module exposes the CSV export endpoint.
type Module struct {
	handler *Handler
}

func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{handler: NewHandler(NewRepository(pool))}
}

func (m *Module) Name() string { return "exports" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/quotes/export.csv", m.handler.ExportQuotesCSV)
}

var _ apphttp.Module = (*Module)(nil)

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"math/rand/v2"
	"os"
	"testing"
	"time"

	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/database"
	"github.com/ghuser/shopfloor/pkg/logger"
	catalogdomain "github.com/ghuser/shopfloor/services/catalog/domain"
	"github.com/ghuser/shopfloor/services/catalog/domain/models"
	"github.com/ghuser/shopfloor/services/catalog/infrastructure/persistence/postgres/db"
)

func TestRowToProduct(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name string
		row  db.CatalogProduct
		want models.Kind
	}{
		{"raw", db.CatalogProduct{ID: 1, Kind: "raw", Code: "R", UnitPrice: 2.5, CostSource: "manual", UpdatedAt: now}, models.KindRaw},
		{"semi", db.CatalogProduct{ID: 1, Kind: "semiFinished", Code: "S", UnitPrice: 9, CostSource: "computed"}, models.KindSemiFinished},
		{"final", db.CatalogProduct{ID: 1, Kind: "final", Code: "F", Barcode: sql.NullString{String: "123", Valid: true}}, models.KindFinal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := rowToProduct(tt.row)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Kind() != tt.want {
				t.Fatalf("kind = %q, want %q", p.Kind(), tt.want)
			}
			if p.UnitPrice() != tt.row.UnitPrice {
				t.Fatalf("unit price = %v, want %v", p.UnitPrice(), tt.row.UnitPrice)
			}
			if p.Info().Barcode != tt.row.Barcode.String {
				t.Fatalf("barcode = %q, want %q", p.Info().Barcode, tt.row.Barcode.String)
			}
		})
	}

	if _, err := rowToProduct(db.CatalogProduct{Kind: "bogus"}); !errors.Is(err, catalogdomain.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind for unknown kind, got %v", err)
	}
}

func TestSetUnitCost_RejectsRaw(t *testing.T) {
	repo := NewCatalogRepository(nil, nil)
	err := repo.SetUnitCost(context.Background(), models.ProductRef{ID: 1, Kind: models.KindRaw}, 1)
	if !errors.Is(err, catalogdomain.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

// Integration tests: skipped unless DATABASE_URL is set. Expects the catalog
// migrations to have been applied.
func TestCatalogRepositoryIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration tests")
	}

	ctx := context.Background()
	log := logger.New(&config.Config{LogLevel: "error"})
	pool, err := database.NewPool(ctx, dsn, log)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	base := rand.Int64N(1 << 40)
	raw := models.ProductRef{ID: base, Kind: models.KindRaw}
	semi := models.ProductRef{ID: base, Kind: models.KindSemiFinished}

	seed := `INSERT INTO catalog.products (id, kind, code, name, on_hand, unit_price, barcode) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := pool.DB().ExecContext(ctx, seed, raw.ID, "raw", "IT-RAW", "steel", 5.0, 10.0, "IT-BC"); err != nil {
		t.Fatalf("seed raw: %v", err)
	}
	if _, err := pool.DB().ExecContext(ctx, seed, semi.ID, "semiFinished", "IT-SEMI", "frame", 0.0, 1.0, nil); err != nil {
		t.Fatalf("seed semi: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.DB().ExecContext(ctx, `DELETE FROM catalog.products WHERE id = $1`, base)
	})

	repo := NewCatalogRepository(pool, nil)

	t.Run("SaveEdge_And_GetBOMEdges", func(t *testing.T) {
		edge, err := models.NewBOMEdge(semi, raw, 2, "kg")
		if err != nil {
			t.Fatalf("edge: %v", err)
		}
		if err := repo.SaveEdge(ctx, edge); err != nil {
			t.Fatalf("save edge: %v", err)
		}
		edges, err := repo.GetBOMEdges(ctx, semi)
		if err != nil {
			t.Fatalf("get edges: %v", err)
		}
		if len(edges) != 1 || edges[0].Child() != raw || edges[0].QuantityPerUnit != 2 {
			t.Fatalf("unexpected edges: %+v", edges)
		}
	})

	t.Run("FindProductByBarcode", func(t *testing.T) {
		p, err := repo.FindProductByBarcode(ctx, "IT-BC")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if models.Ref(p) != raw {
			t.Fatalf("expected %s, got %s", raw, models.Ref(p))
		}
	})

	t.Run("SetUnitCost", func(t *testing.T) {
		if err := repo.SetUnitCost(ctx, semi, 20); err != nil {
			t.Fatalf("set unit cost: %v", err)
		}
		p, err := repo.GetProduct(ctx, semi)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		sf := p.(models.SemiFinished)
		if sf.UnitCost != 20 || sf.CostSource != models.CostSourceComputed {
			t.Fatalf("unexpected product after refresh: %+v", sf)
		}
	})

	t.Run("GetProduct_NotFound", func(t *testing.T) {
		_, err := repo.GetProduct(ctx, models.ProductRef{ID: -1, Kind: models.KindRaw})
		if !errors.Is(err, catalogdomain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})
}

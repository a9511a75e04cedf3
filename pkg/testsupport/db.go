package testsupport

import (
	"context"
	_ "embed"
	"encoding/json"
	"testing"

	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/store"
	"github.com/uptrace/bun"
)

// NewTestDB opens a migrated in-memory sqlite database that is closed when
// the test ends.
func NewTestDB(t *testing.T) *bun.DB {
	t.Helper()

	ctx := context.Background()
	db, err := store.Open(ctx, store.Config{Driver: store.DriverSQLite, DSN: ":memory:"}, nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(ctx, db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// NewTestStore returns a Store over a fresh test database.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(NewTestDB(t), 0)
}

// CatalogFixture is the JSON shape of a seeded catalog.
type CatalogFixture struct {
	Categories []catalog.Category `json:"categories"`
	Statuses   []catalog.Status   `json:"statuses"`
	Products   []catalog.Product  `json:"products"`
}

//go:embed testdata/catalog.json
var defaultCatalog []byte

// SeedCatalog inserts the bundled catalog fixture: three categories, two
// statuses and two products.
func SeedCatalog(t *testing.T, st *store.Store) CatalogFixture {
	t.Helper()

	var fixture CatalogFixture
	if err := json.Unmarshal(defaultCatalog, &fixture); err != nil {
		t.Fatalf("failed to unmarshal bundled catalog: %v", err)
	}
	return seed(t, st, fixture)
}

// SeedCatalogFile loads a CatalogFixture from path and inserts it in order.
func SeedCatalogFile(t *testing.T, st *store.Store, path string) CatalogFixture {
	t.Helper()

	var fixture CatalogFixture
	LoadFixtureJSON(t, path, &fixture)
	return seed(t, st, fixture)
}

// seed inserts fixture records in dependency order. Records come back with
// their assigned keys.
func seed(t *testing.T, st *store.Store, fixture CatalogFixture) CatalogFixture {
	t.Helper()

	ctx := context.Background()
	for i, c := range fixture.Categories {
		created, err := st.Categories.Create(ctx, c)
		if err != nil {
			t.Fatalf("failed to seed category %q: %v", c.Name, err)
		}
		fixture.Categories[i] = created
	}
	for i, s := range fixture.Statuses {
		created, err := st.Statuses.Create(ctx, s)
		if err != nil {
			t.Fatalf("failed to seed status %q: %v", s.Name, err)
		}
		fixture.Statuses[i] = created
	}
	for i, p := range fixture.Products {
		if err := p.Normalize(); err != nil {
			t.Fatalf("failed to normalize product %q: %v", p.Name, err)
		}
		created, err := st.Products.Create(ctx, p)
		if err != nil {
			t.Fatalf("failed to seed product %q: %v", p.Name, err)
		}
		fixture.Products[i] = created
	}
	return fixture
}

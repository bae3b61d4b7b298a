package seed

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	sequencedomain "github.com/smallbiznis/gstbilling/internal/sequence/domain"
	sequencerepo "github.com/smallbiznis/gstbilling/internal/sequence/repository"
	supplierdomain "github.com/smallbiznis/gstbilling/internal/supplier/domain"
	"github.com/smallbiznis/gstbilling/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCountersStartsAllocationAtOne(t *testing.T) {
	conn := dbtest.Open(t, &sequencedomain.Counter{})
	ctx := context.Background()

	require.NoError(t, EnsureCounters(ctx, conn))
	require.NoError(t, EnsureCounters(ctx, conn))

	var count int64
	require.NoError(t, conn.Model(&sequencedomain.Counter{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	store := sequencerepo.NewSQLStore(conn)
	next, err := store.Increment(ctx, sequencedomain.CounterInvoice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestEnsureCountersKeepsExistingValues(t *testing.T) {
	conn := dbtest.Open(t, &sequencedomain.Counter{})
	ctx := context.Background()
	store := sequencerepo.NewSQLStore(conn)

	for i := 0; i < 4; i++ {
		_, err := store.Increment(ctx, sequencedomain.CounterQuotation)
		require.NoError(t, err)
	}
	require.NoError(t, EnsureCounters(ctx, conn))

	current, err := store.Current(ctx, sequencedomain.CounterQuotation)
	require.NoError(t, err)
	assert.Equal(t, int64(4), current)
}

func TestEnsureDemoDataIsIdempotent(t *testing.T) {
	conn := dbtest.Open(t, &customerdomain.Customer{}, &productdomain.Product{}, &supplierdomain.Supplier{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, EnsureDemoData(ctx, conn, node))
	require.NoError(t, EnsureDemoData(ctx, conn, node))

	var customers, products, suppliers int64
	require.NoError(t, conn.Model(&customerdomain.Customer{}).Count(&customers).Error)
	require.NoError(t, conn.Model(&productdomain.Product{}).Count(&products).Error)
	require.NoError(t, conn.Model(&supplierdomain.Supplier{}).Count(&suppliers).Error)
	assert.Equal(t, int64(1), customers)
	assert.Equal(t, int64(len(demoProducts)), products)
	assert.Equal(t, int64(1), suppliers)

	var pump productdomain.Product
	require.NoError(t, conn.Where("product_code = ?", "PMP-100").First(&pump).Error)
	assert.Equal(t, productdomain.StatusInStock, pump.Status)
}

func TestSeedRequiresDatabase(t *testing.T) {
	assert.Error(t, EnsureCounters(context.Background(), nil))
	assert.Error(t, EnsureDemoData(context.Background(), nil, nil))
}

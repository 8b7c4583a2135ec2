package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"freelancehub/internal/db"
	"freelancehub/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// graph builds two users with a full order graph between them:
// freelancer owns a service (with images), client ordered it, the order
// has a review and messages, and there is one order-less direct message.
type graph struct {
	gdb        *gorm.DB
	freelancer models.User
	client     models.User
	category   models.Category
	service    models.Service
	order      models.Order
}

func newGraph(t *testing.T) *graph {
	t.Helper()
	g := &graph{gdb: testDB(t)}

	g.freelancer = models.User{Username: "maker", Email: "maker@example.com", Password: "x", Name: "Maker"}
	g.client = models.User{Username: "buyer", Email: "buyer@example.com", Password: "x", Name: "Buyer"}
	require.NoError(t, g.gdb.Create(&g.freelancer).Error)
	require.NoError(t, g.gdb.Create(&g.client).Error)

	g.category = models.Category{Name: "Design"}
	require.NoError(t, g.gdb.Create(&g.category).Error)

	g.service = models.Service{
		Title: "Logo design", Description: "d", Price: 50, DeliveryTime: 2,
		FreelancerID: g.freelancer.ID, CategoryID: g.category.ID,
	}
	require.NoError(t, g.gdb.Create(&g.service).Error)
	require.NoError(t, g.gdb.Create(&models.ServiceImage{
		ServiceID: g.service.ID, ImagePath: "uploads/services/a.png", IsPrimary: true,
	}).Error)

	g.order = models.Order{
		ServiceID: g.service.ID, ClientID: g.client.ID,
		Status: models.OrderCompleted, Price: 50,
	}
	require.NoError(t, g.gdb.Create(&g.order).Error)
	require.NoError(t, g.gdb.Create(&models.Review{OrderID: g.order.ID, Rating: 5}).Error)
	require.NoError(t, g.gdb.Create(&models.Message{
		SenderID: g.client.ID, ReceiverID: g.freelancer.ID, OrderID: &g.order.ID, Content: "hi",
	}).Error)
	require.NoError(t, g.gdb.Create(&models.Message{
		SenderID: g.freelancer.ID, ReceiverID: g.client.ID, Content: "direct hello",
	}).Error)
	return g
}

func count(t *testing.T, gdb *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}

func TestDeleteFreelancerRemovesWholeGraph(t *testing.T) {
	g := newGraph(t)

	require.NoError(t, DeleteUser(g.gdb, g.freelancer.ID))

	assert.Zero(t, count(t, g.gdb, &models.Service{}))
	assert.Zero(t, count(t, g.gdb, &models.ServiceImage{}))
	assert.Zero(t, count(t, g.gdb, &models.Order{}))
	assert.Zero(t, count(t, g.gdb, &models.Review{}))
	assert.Zero(t, count(t, g.gdb, &models.Message{}))
	assert.EqualValues(t, 1, count(t, g.gdb, &models.User{})) // the client stays

	// categories are untouched by user deletion
	assert.EqualValues(t, 1, count(t, g.gdb, &models.Category{}))
}

func TestDeleteClientKeepsFreelancerService(t *testing.T) {
	g := newGraph(t)

	require.NoError(t, DeleteUser(g.gdb, g.client.ID))

	// the client's orders, their review and every message involving the
	// client are gone
	assert.Zero(t, count(t, g.gdb, &models.Order{}))
	assert.Zero(t, count(t, g.gdb, &models.Review{}))
	assert.Zero(t, count(t, g.gdb, &models.Message{}))

	// the freelancer's listing survives
	assert.EqualValues(t, 1, count(t, g.gdb, &models.Service{}))
	assert.EqualValues(t, 1, count(t, g.gdb, &models.ServiceImage{}))
	assert.EqualValues(t, 1, count(t, g.gdb, &models.User{}))
}

func TestDeleteService(t *testing.T) {
	g := newGraph(t)

	require.NoError(t, DeleteService(g.gdb, g.service.ID))

	assert.Zero(t, count(t, g.gdb, &models.Service{}))
	assert.Zero(t, count(t, g.gdb, &models.ServiceImage{}))
	assert.Zero(t, count(t, g.gdb, &models.Order{}))
	assert.Zero(t, count(t, g.gdb, &models.Review{}))

	// the direct message between the two users is not part of the
	// service graph
	assert.EqualValues(t, 1, count(t, g.gdb, &models.Message{}))
	assert.EqualValues(t, 2, count(t, g.gdb, &models.User{}))
}

func TestDeleteCategoryInUse(t *testing.T) {
	g := newGraph(t)

	err := DeleteCategory(g.gdb, g.category.ID)
	assert.ErrorIs(t, err, ErrCategoryInUse)
	assert.EqualValues(t, 1, count(t, g.gdb, &models.Category{}))
}

func TestDeleteCategoryUnused(t *testing.T) {
	g := newGraph(t)

	empty := models.Category{Name: "Empty"}
	require.NoError(t, g.gdb.Create(&empty).Error)

	require.NoError(t, DeleteCategory(g.gdb, empty.ID))
	assert.EqualValues(t, 1, count(t, g.gdb, &models.Category{}))
}

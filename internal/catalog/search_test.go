package catalog

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

type seed struct {
	gdb        *gorm.DB
	freelancer models.User
	client     models.User
	design     models.Category
	writing    models.Category
}

func newSeed(t *testing.T) *seed {
	t.Helper()
	s := &seed{gdb: testDB(t)}

	s.freelancer = models.User{Username: "maker", Email: "maker@example.com", Password: "x", Name: "Maker"}
	s.client = models.User{Username: "buyer", Email: "buyer@example.com", Password: "x", Name: "Buyer"}
	require.NoError(t, s.gdb.Create(&s.freelancer).Error)
	require.NoError(t, s.gdb.Create(&s.client).Error)

	s.design = models.Category{Name: "Design"}
	s.writing = models.Category{Name: "Writing"}
	require.NoError(t, s.gdb.Create(&s.design).Error)
	require.NoError(t, s.gdb.Create(&s.writing).Error)
	return s
}

func (s *seed) service(t *testing.T, title string, price float64, delivery int, cat uint, featured bool) models.Service {
	t.Helper()
	svc := models.Service{
		Title:        title,
		Description:  "description of " + title,
		Price:        price,
		DeliveryTime: delivery,
		FreelancerID: s.freelancer.ID,
		CategoryID:   cat,
		IsFeatured:   featured,
	}
	require.NoError(t, s.gdb.Create(&svc).Error)
	return svc
}

// review places a completed order on the service and reviews it.
func (s *seed) review(t *testing.T, svc models.Service, rating int) {
	t.Helper()
	o := models.Order{ServiceID: svc.ID, ClientID: s.client.ID, Status: models.OrderCompleted, Price: svc.Price}
	require.NoError(t, s.gdb.Create(&o).Error)
	require.NoError(t, s.gdb.Create(&models.Review{OrderID: o.ID, Rating: rating}).Error)
}

func (s *seed) order(t *testing.T, svc models.Service) {
	t.Helper()
	o := models.Order{ServiceID: svc.ID, ClientID: s.client.ID, Status: models.OrderPending, Price: svc.Price}
	require.NoError(t, s.gdb.Create(&o).Error)
}

func titles(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Title
	}
	return out
}

func TestSearchFiltersAreConjunctive(t *testing.T) {
	s := newSeed(t)
	s.service(t, "Logo design", 50, 2, s.design.ID, false)
	s.service(t, "Logo animation", 200, 7, s.design.ID, false)
	s.service(t, "Blog post about logos", 50, 2, s.writing.ID, false)

	min := 40.0
	max := 100.0
	results, err := Search(s.gdb, Filter{
		Query:       "logo",
		CategoryID:  s.design.ID,
		MinPrice:    &min,
		MaxPrice:    &max,
		MaxDelivery: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Logo design"}, titles(results))
}

func TestSearchQueryIsCaseInsensitive(t *testing.T) {
	s := newSeed(t)
	s.service(t, "WordPress Setup", 80, 3, s.design.ID, false)

	results, err := Search(s.gdb, Filter{Query: "wordpress"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = Search(s.gdb, Filter{Query: "WORDPRESS"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchMatchesDescriptionToo(t *testing.T) {
	s := newSeed(t)
	s.service(t, "Quick sketch", 20, 1, s.design.ID, false)

	results, err := Search(s.gdb, Filter{Query: "description of quick"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchFeaturedOnly(t *testing.T) {
	s := newSeed(t)
	s.service(t, "Plain", 10, 1, s.design.ID, false)
	s.service(t, "Promoted", 10, 1, s.design.ID, true)

	results, err := Search(s.gdb, Filter{FeaturedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Promoted"}, titles(results))
}

func TestSearchZeroPriceBoundIsUsable(t *testing.T) {
	s := newSeed(t)
	s.service(t, "Free sample", 0, 1, s.design.ID, false)
	s.service(t, "Paid work", 30, 1, s.design.ID, false)

	max := 0.0
	results, err := Search(s.gdb, Filter{MaxPrice: &max})
	require.NoError(t, err)
	assert.Equal(t, []string{"Free sample"}, titles(results))
}

func TestSearchSortPrice(t *testing.T) {
	s := newSeed(t)
	s.service(t, "Mid", 50, 1, s.design.ID, false)
	s.service(t, "Cheap", 10, 1, s.design.ID, false)
	s.service(t, "Expensive", 90, 1, s.design.ID, false)

	results, err := Search(s.gdb, Filter{Sort: SortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cheap", "Mid", "Expensive"}, titles(results))

	results, err = Search(s.gdb, Filter{Sort: SortPriceHigh})
	require.NoError(t, err)
	assert.Equal(t, []string{"Expensive", "Mid", "Cheap"}, titles(results))
}

func TestSearchSortRating(t *testing.T) {
	s := newSeed(t)
	good := s.service(t, "Good", 10, 1, s.design.ID, false)
	great := s.service(t, "Great", 10, 1, s.design.ID, false)
	s.service(t, "Unreviewed", 10, 1, s.design.ID, false)

	s.review(t, good, 3)
	s.review(t, great, 5)

	results, err := Search(s.gdb, Filter{Sort: SortRating})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Great", results[0].Title)
	assert.Equal(t, "Good", results[1].Title)
	// review-less services sort last, not unpredictably
	assert.Equal(t, "Unreviewed", results[2].Title)
	assert.Zero(t, results[2].AvgRating)
}

func TestSearchSortPopular(t *testing.T) {
	s := newSeed(t)
	quiet := s.service(t, "Quiet", 10, 1, s.design.ID, false)
	busy := s.service(t, "Busy", 10, 1, s.design.ID, false)

	s.order(t, busy)
	s.order(t, busy)
	s.order(t, quiet)

	results, err := Search(s.gdb, Filter{Sort: SortPopular})
	require.NoError(t, err)
	assert.Equal(t, []string{"Busy", "Quiet"}, titles(results))
	assert.EqualValues(t, 2, results[0].OrderCount)
}

func TestSearchAggregates(t *testing.T) {
	s := newSeed(t)
	svc := s.service(t, "Aggregated", 10, 1, s.design.ID, false)
	s.review(t, svc, 4)
	s.review(t, svc, 2)

	require.NoError(t, s.gdb.Create(&models.ServiceImage{
		ServiceID: svc.ID, ImagePath: "uploads/services/cover.png", IsPrimary: true,
	}).Error)
	require.NoError(t, s.gdb.Create(&models.ServiceImage{
		ServiceID: svc.ID, ImagePath: "uploads/services/extra.png",
	}).Error)

	results, err := Search(s.gdb, Filter{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.InDelta(t, 3.0, r.AvgRating, 0.001)
	assert.EqualValues(t, 2, r.ReviewCount)
	assert.EqualValues(t, 2, r.OrderCount)
	assert.Equal(t, "uploads/services/cover.png", r.Image)
	assert.Equal(t, "Maker", r.FreelancerName)
	assert.Equal(t, "Design", r.CategoryName)
}

func TestSearchLimit(t *testing.T) {
	s := newSeed(t)
	for _, title := range []string{"One", "Two", "Three"} {
		s.service(t, title, 10, 1, s.design.ID, false)
	}

	results, err := Search(s.gdb, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestCategories(t *testing.T) {
	s := newSeed(t)

	cats, err := Categories(s.gdb)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Design", cats[0].Name)
	assert.Equal(t, "Writing", cats[1].Name)
}

package integration

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/rehhab/pos-terminal/gateway"
	"github.com/rehhab/pos-terminal/models"
	"github.com/rehhab/pos-terminal/tests/testutil"
)

// AdminIntegrationTestSuite exercises the admin CRUD surface end to end
// through the gateway client.
type AdminIntegrationTestSuite struct {
	suite.Suite
	db     *gorm.DB
	url    string
	client *gateway.Client
}

// SetupSuite runs once before all tests
func (suite *AdminIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(suite.T())
}

// SetupTest boots a fresh gateway and a logged-in admin session
func (suite *AdminIntegrationTestSuite) SetupTest() {
	server, db := testutil.StartDevGateway(suite.T())
	suite.db = db
	suite.url = server.URL
	suite.client = testutil.LoginClient(suite.T(), server.URL, "admin", "admin")
}

func (suite *AdminIntegrationTestSuite) TestProductLifecycle() {
	ctx := context.Background()

	created, err := suite.client.CreateProduct(ctx, models.Product{
		Name:     "Lemon Sorbet",
		Category: "Desserts",
		Price:    decimal.NewFromFloat(4.25),
		Enabled:  true,
	})
	suite.Require().NoError(err)
	suite.NotZero(created.ID)

	// Waiters can find it immediately
	products, err := suite.client.SearchProducts(ctx, "Sorbet")
	suite.NoError(err)
	suite.Require().Len(products, 1)
	suite.True(products[0].Price.Equal(decimal.NewFromFloat(4.25)))

	// Disabling removes it from search without deleting it
	created.Enabled = false
	_, err = suite.client.UpdateProduct(ctx, created.ID, *created)
	suite.Require().NoError(err)

	products, err = suite.client.SearchProducts(ctx, "Sorbet")
	suite.NoError(err)
	suite.Empty(products)

	listed, err := suite.client.ListProducts(ctx)
	suite.NoError(err)
	suite.Len(listed, 7)

	suite.NoError(suite.client.DeleteProduct(ctx, created.ID))
	listed, err = suite.client.ListProducts(ctx)
	suite.NoError(err)
	suite.Len(listed, 6)
}

func (suite *AdminIntegrationTestSuite) TestUserLifecycle() {
	ctx := context.Background()

	created, err := suite.client.CreateUser(ctx, models.User{
		Username: "nina",
		Password: "first-password",
	})
	suite.Require().NoError(err)
	suite.Equal(models.RoleWaiter, created.Role)
	suite.Empty(created.Password)

	// The new account can log in
	ninaClient := gateway.New(suite.url)
	session, err := ninaClient.Login(ctx, "nina", "first-password")
	suite.Require().NoError(err)
	suite.Equal(models.RoleWaiter, session.Role)

	// Password change invalidates the old credentials
	_, err = suite.client.UpdateUser(ctx, created.ID, models.User{Password: "second-password"})
	suite.Require().NoError(err)

	_, err = gateway.New(suite.url).Login(ctx, "nina", "first-password")
	suite.Error(err)
	_, err = gateway.New(suite.url).Login(ctx, "nina", "second-password")
	suite.NoError(err)

	suite.NoError(suite.client.DeleteUser(ctx, created.ID))
	_, err = gateway.New(suite.url).Login(ctx, "nina", "second-password")
	suite.Error(err)
}

func (suite *AdminIntegrationTestSuite) TestTableLifecycle() {
	ctx := context.Background()

	created, err := suite.client.CreateTable(ctx, models.Table{Number: 99, Capacity: 2})
	suite.Require().NoError(err)
	suite.Equal(models.StatusFree, created.Status)

	tables, err := suite.client.ListAdminTables(ctx)
	suite.NoError(err)
	suite.Len(tables, 9)

	// The waiter surface sees the new table too
	raw, err := suite.client.ListTables(ctx)
	suite.NoError(err)
	suite.Len(raw, 9)

	// A table in use cannot be deleted
	occupiedID := tables[0].ID
	_, err = suite.client.OpenTable(ctx, occupiedID)
	suite.Require().NoError(err)

	err = suite.client.DeleteTable(ctx, occupiedID)
	suite.Require().Error(err)
	var apiErr *gateway.APIError
	suite.ErrorAs(err, &apiErr)
	suite.Equal(409, apiErr.Status)

	suite.NoError(suite.client.DeleteTable(ctx, created.ID))
	tables, err = suite.client.ListAdminTables(ctx)
	suite.NoError(err)
	suite.Len(tables, 8)
}

// TestAdminIntegrationTestSuite runs the suite
func TestAdminIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AdminIntegrationTestSuite))
}

package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/kendall-kelly/cleanrush-laundry-api/config"
	"github.com/kendall-kelly/cleanrush-laundry-api/controllers"
	"github.com/kendall-kelly/cleanrush-laundry-api/middleware"
	"github.com/kendall-kelly/cleanrush-laundry-api/models"
	"github.com/kendall-kelly/cleanrush-laundry-api/services"
	"github.com/kendall-kelly/cleanrush-laundry-api/tests/testutil"
)

// OrderIntegrationTestSuite runs the order desk HTTP API against one store backend
type OrderIntegrationTestSuite struct {
	suite.Suite
	driver string
	cfg    *config.Config
	router *gin.Engine
	store  services.OrderStore
	svc    *services.OrderService
	redis  *miniredis.Miniredis
}

// SetupSuite runs once before all tests
func (suite *OrderIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(suite.T())
	testutil.RequireTestEnvironment(suite.T())

	os.Setenv("STORE_DRIVER", config.StoreMemory)
	os.Setenv("ADMIN_PIN", "2468")
	cfg, err := config.Load()
	suite.Require().NoError(err)
	suite.cfg = cfg
}

// TearDownSuite dumps the store environment when something failed
func (suite *OrderIntegrationTestSuite) TearDownSuite() {
	if suite.T().Failed() {
		testutil.PrintEnvironmentInfo(os.Stderr)
	}
}

// SetupTest builds a fresh store and router before each test
func (suite *OrderIntegrationTestSuite) SetupTest() {
	dir := suite.T().TempDir()

	switch suite.driver {
	case config.StoreSQLite:
		cfg := *suite.cfg
		cfg.StoreDriver = config.StoreSQLite
		cfg.DatabaseURL = filepath.Join(dir, "laundry.db")
		suite.Require().NoError(config.ConnectDatabase(&cfg))
		suite.store = services.NewGormStore(config.GetDB(), cfg.StorageKey)
	case config.StoreRedis:
		suite.redis = miniredis.RunT(suite.T())
		client := redis.NewClient(&redis.Options{Addr: suite.redis.Addr()})
		suite.store = services.NewRedisStore(client, suite.cfg.StorageKey)
	case config.StoreFile:
		store, err := services.NewFileStore(dir, suite.cfg.StorageKey)
		suite.Require().NoError(err)
		suite.store = store
	default:
		suite.store = services.NewMemoryStore()
	}

	suite.svc = services.NewOrderService(suite.store, services.DefaultPriceTable(),
		services.WithLocation(time.UTC),
		services.WithFeed(services.NewOrderFeed()),
	)
	services.SetOrderService(suite.svc)
	suite.router = suite.createRouter()
}

// TearDownTest runs after each test
func (suite *OrderIntegrationTestSuite) TearDownTest() {
	if suite.driver == config.StoreSQLite {
		if sqlDB, err := config.GetDB().DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func (suite *OrderIntegrationTestSuite) createRouter() *gin.Engine {
	router := gin.New()

	v1 := router.Group("/api/v1")
	{
		v1.POST("/orders", controllers.CreateOrder)
		v1.GET("/orders/:code", controllers.GetOrder)
		v1.GET("/orders/:code/share", controllers.GetOrderShareLink)

		admin := v1.Group("/admin", middleware.RequireAdminPIN(suite.cfg))
		{
			admin.GET("/orders", controllers.ListOrders)
			admin.POST("/orders/:code/advance", controllers.AdvanceOrder)
			admin.POST("/orders/:code/retreat", controllers.RetreatOrder)
			admin.DELETE("/orders/:code", controllers.DeleteOrder)
			admin.DELETE("/orders", controllers.ResetOrders)
		}
	}

	return router
}

func (suite *OrderIntegrationTestSuite) serve(req *http.Request, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	suite.Require().NoError(err)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	response, decodeErr := testutil.DecodeEnvelope(w.Body)
	suite.Require().NoError(decodeErr)
	return w, response
}

func (suite *OrderIntegrationTestSuite) createOrder(body map[string]interface{}) map[string]interface{} {
	w, response := suite.serve(testutil.NewJSONRequest(http.MethodPost, "/api/v1/orders", body))
	suite.Require().Equal(http.StatusCreated, w.Code)
	return response["data"].(map[string]interface{})
}

// TestOrderWorkflow_CreateTrackAdvance tests the full customer to admin workflow
func (suite *OrderIntegrationTestSuite) TestOrderWorkflow_CreateTrackAdvance() {
	created := suite.createOrder(map[string]interface{}{
		"customerName":      "Budi",
		"phone":             "0812-3456-7890",
		"serviceTier":       "express",
		"weightKg":          3,
		"ironingRequested":  true,
		"deliveryRequested": true,
	})
	code := created["code"].(string)
	assert.Equal(suite.T(), float64(50500), created["totalPrice"])

	// Customer tracks the order
	w, response := suite.serve(testutil.NewJSONRequest(http.MethodGet, "/api/v1/orders/"+strings.ToLower(code), nil))
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), "Diterima", response["data"].(map[string]interface{})["history"].([]interface{})[0].(map[string]interface{})["stageName"])

	// Admin advances it past the end of the pipeline
	var data map[string]interface{}
	for i := 0; i < len(models.Stages)+1; i++ {
		w, response = suite.serve(testutil.NewAdminRequest(http.MethodPost, "/api/v1/admin/orders/"+code+"/advance", "2468", nil))
		suite.Require().Equal(http.StatusOK, w.Code)
		data = response["data"].(map[string]interface{})
	}
	assert.Equal(suite.T(), float64(models.LastStageIndex()), data["currentStageIndex"])
	assert.Len(suite.T(), data["history"], len(models.Stages))

	// The stored record agrees with what the API returned
	stored, err := suite.store.Load(context.Background())
	suite.Require().NoError(err)
	suite.Require().Len(stored, 1)
	assert.Equal(suite.T(), "Selesai", stored[0].StageName())
	assert.Equal(suite.T(), "Selesai", stored[0].History[0].StageName)
}

// TestOrderWorkflow_DeleteAndReset tests removing orders
func (suite *OrderIntegrationTestSuite) TestOrderWorkflow_DeleteAndReset() {
	first := suite.createOrder(map[string]interface{}{"customerName": "Satu", "weightKg": 1})
	suite.createOrder(map[string]interface{}{"customerName": "Dua", "weightKg": 2})

	w, _ := suite.serve(testutil.NewAdminRequest(http.MethodDelete, "/api/v1/admin/orders/"+first["code"].(string), "2468", nil))
	suite.Require().Equal(http.StatusOK, w.Code)

	w, response := suite.serve(testutil.NewAdminRequest(http.MethodGet, "/api/v1/admin/orders", "2468", nil))
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), float64(1), response["count"])

	w, _ = suite.serve(testutil.NewAdminRequest(http.MethodDelete, "/api/v1/admin/orders", "2468", nil))
	suite.Require().Equal(http.StatusOK, w.Code)

	orders, err := suite.store.Load(context.Background())
	suite.Require().NoError(err)
	assert.Empty(suite.T(), orders)
}

// TestAdminRequiresPIN tests the PIN gate in front of every admin route
func (suite *OrderIntegrationTestSuite) TestAdminRequiresPIN() {
	w, response := suite.serve(testutil.NewAdminRequest(http.MethodGet, "/api/v1/admin/orders", "1234", nil))
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(suite.T(), "INVALID_PIN", response["error"].(map[string]interface{})["code"])
}

// TestOrdersSurviveServiceRestart tests that a new service sees orders written by the old one
func (suite *OrderIntegrationTestSuite) TestOrdersSurviveServiceRestart() {
	created := suite.createOrder(map[string]interface{}{"customerName": "Tetap", "weightKg": 4})

	restarted := services.NewOrderService(suite.store, services.DefaultPriceTable())
	found, err := restarted.FindByCode(context.Background(), created["code"].(string))
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Tetap", found.CustomerName)
	assert.Equal(suite.T(), int64(28000), found.TotalPrice)
}

func TestOrderIntegrationSuite(t *testing.T) {
	for _, driver := range []string{config.StoreMemory, config.StoreFile, config.StoreSQLite, config.StoreRedis} {
		t.Run(driver, func(t *testing.T) {
			suite.Run(t, &OrderIntegrationTestSuite{driver: driver})
		})
	}
}

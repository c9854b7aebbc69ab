package devgateway

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rehhab/pos-terminal/middleware"
	"github.com/rehhab/pos-terminal/models"
)

const tokenTTL = 12 * time.Hour

// Server bundles the dev gateway's database and signing secret
type Server struct {
	db     *gorm.DB
	secret string
}

// NewServer creates a dev gateway server over an already-open database
func NewServer(db *gorm.DB, secret string) *Server {
	return &Server{db: db, secret: secret}
}

// Router builds the full route table mirroring the production gateway
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.POST("/auth/login", s.login)

	authorized := router.Group("")
	authorized.Use(middleware.EnsureValidToken(s.secret))
	{
		authorized.GET("/waiter/tables", s.listTables)
		authorized.POST("/waiter/tables/:id/open", s.openTable)
		authorized.POST("/waiter/tables/:id/free", s.freeTable)
		authorized.POST("/waiter/tables/:id/reset", s.resetTable)
		authorized.GET("/waiter/orders/:orderId", s.getOrder)
		authorized.POST("/waiter/orders/:orderId/items", s.addItem)
		authorized.DELETE("/waiter/orders/:orderId/items/:itemId", s.deleteItem)
		authorized.POST("/waiter/orders/:orderId/close", s.closeOrder)
		authorized.GET("/products/search", s.searchProducts)

		admin := authorized.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", s.listUsers)
			admin.POST("/users", s.createUser)
			admin.PUT("/users/:id", s.updateUser)
			admin.DELETE("/users/:id", s.deleteUser)

			admin.GET("/products", s.listProducts)
			admin.POST("/products", s.createProduct)
			admin.PUT("/products/:id", s.updateProduct)
			admin.DELETE("/products/:id", s.deleteProduct)

			admin.GET("/tables", s.listAdminTables)
			admin.POST("/tables", s.createTable)
			admin.PUT("/tables/:id", s.updateTable)
			admin.DELETE("/tables/:id", s.deleteTable)
		}
	}

	return router
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login issues an HS256 token. The dev gateway compares plaintext
// passwords; it is a development double, not a credential store.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if user.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := middleware.IssueToken(s.secret, user, tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "role": user.Role})
}

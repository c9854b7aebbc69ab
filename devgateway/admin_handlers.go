package devgateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rehhab/pos-terminal/models"
)

// Admin CRUD handlers. These mirror the production gateway's /admin surface
// closely enough for the terminal's admin screens and the integration tests.

func (s *Server) listUsers(c *gin.Context) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load users"})
		return
	}
	for i := range users {
		users[i].Password = ""
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) createUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user payload"})
		return
	}
	if user.Username == "" || user.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username and password are required"})
		return
	}
	if user.Role == "" {
		user.Role = models.RoleWaiter
	}
	if user.Role != models.RoleAdmin && user.Role != models.RoleWaiter {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Role must be ADMIN or WAITER"})
		return
	}

	if err := s.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Failed to create user"})
		return
	}
	user.Password = ""
	c.JSON(http.StatusCreated, user)
}

func (s *Server) updateUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	var patch models.User
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user payload"})
		return
	}

	if patch.Username != "" {
		user.Username = patch.Username
	}
	if patch.Password != "" {
		user.Password = patch.Password
	}
	if patch.Role != "" {
		user.Role = patch.Role
	}

	if err := s.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user"})
		return
	}
	user.Password = ""
	c.JSON(http.StatusOK, user)
}

func (s *Server) deleteUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return
	}
	if err := s.db.Delete(&models.User{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete user"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listProducts(c *gin.Context) {
	var products []models.Product
	if err := s.db.Order("id").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) createProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product payload"})
		return
	}
	if product.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Product name is required"})
		return
	}
	if err := s.db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}

	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	var patch models.Product
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product payload"})
		return
	}
	patch.ID = product.ID

	if err := s.db.Save(&patch).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product"})
		return
	}
	c.JSON(http.StatusOK, patch)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}
	if err := s.db.Delete(&models.Product{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete product"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listAdminTables(c *gin.Context) {
	var tables []models.Table
	if err := s.db.Order("number").Find(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load tables"})
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (s *Server) createTable(c *gin.Context) {
	var table models.Table
	if err := c.ShouldBindJSON(&table); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid table payload"})
		return
	}
	if table.Number <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Table number must be positive"})
		return
	}
	if table.Capacity <= 0 {
		table.Capacity = 4
	}
	table.Status = models.StatusFree
	table.OrderID = nil

	if err := s.db.Create(&table).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Failed to create table"})
		return
	}
	c.JSON(http.StatusCreated, table)
}

func (s *Server) updateTable(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid table id"})
		return
	}

	var table models.Table
	if err := s.db.First(&table, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Table not found"})
		return
	}

	var patch models.Table
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid table payload"})
		return
	}

	// Admin edits touch layout fields only; status and order are owned by
	// the waiter workflow
	if patch.Number > 0 {
		table.Number = patch.Number
	}
	if patch.Capacity > 0 {
		table.Capacity = patch.Capacity
	}

	if err := s.db.Save(&table).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update table"})
		return
	}
	c.JSON(http.StatusOK, table)
}

func (s *Server) deleteTable(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid table id"})
		return
	}

	var table models.Table
	if err := s.db.First(&table, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Table not found"})
		return
	}
	if table.Status == models.StatusOccupied {
		c.JSON(http.StatusConflict, gin.H{"message": "Cannot delete an occupied table"})
		return
	}

	if err := s.db.Delete(&table).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete table"})
		return
	}
	c.Status(http.StatusNoContent)
}

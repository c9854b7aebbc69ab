package devgateway

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rehhab/pos-terminal/models"
)

// wireTable is the shape /waiter/tables serves: the nested-order variant of
// the raw record the client's normalizer has to cope with.
type wireTable struct {
	ID       uint             `json:"id"`
	Number   int              `json:"number"`
	Capacity int              `json:"capacity"`
	Status   string           `json:"status"`
	Order    *models.OrderRef `json:"order,omitempty"`
}

func (s *Server) listTables(c *gin.Context) {
	var tables []models.Table
	if err := s.db.Order("number").Find(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load tables"})
		return
	}

	out := make([]wireTable, 0, len(tables))
	for _, t := range tables {
		w := wireTable{ID: t.ID, Number: t.Number, Capacity: t.Capacity, Status: t.Status}
		if t.OrderID != nil {
			w.Order = &models.OrderRef{ID: *t.OrderID}
		}
		out = append(out, w)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) openTable(c *gin.Context) {
	tableID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid table id"})
		return
	}

	var table models.Table
	if err := s.db.First(&table, tableID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Table not found"})
		return
	}
	if table.Status != models.StatusFree {
		c.JSON(http.StatusConflict, gin.H{"message": "Table is not free"})
		return
	}

	order := models.Order{TableID: table.ID}
	if err := s.db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order"})
		return
	}

	table.Status = models.StatusOccupied
	table.OrderID = &order.ID
	if err := s.db.Save(&table).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update table"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": gin.H{"id": order.ID}})
}

func (s *Server) freeTable(c *gin.Context) {
	s.clearTable(c, false)
}

func (s *Server) resetTable(c *gin.Context) {
	s.clearTable(c, true)
}

// clearTable frees a table; reset additionally closes any dangling order
func (s *Server) clearTable(c *gin.Context, closeOrder bool) {
	tableID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid table id"})
		return
	}

	var table models.Table
	if err := s.db.First(&table, tableID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Table not found"})
		return
	}

	if closeOrder && table.OrderID != nil {
		if err := s.db.Model(&models.Order{}).Where("id = ?", *table.OrderID).Update("closed", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to close order"})
			return
		}
	}

	table.Status = models.StatusFree
	table.OrderID = nil
	if err := s.db.Save(&table).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update table"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getOrder(c *gin.Context) {
	orderID, err := parseID(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order id"})
		return
	}

	var order models.Order
	if err := s.db.Preload("Items").First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) addItem(c *gin.Context) {
	orderID, err := parseID(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order id"})
		return
	}
	productID, err := parseID(c.Query("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}
	qty, err := strconv.Atoi(c.Query("qty"))
	if err != nil || qty < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Quantity must be at least 1"})
		return
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}
	if order.Closed {
		c.JSON(http.StatusConflict, gin.H{"message": "Order is closed"})
		return
	}

	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	item := models.LineItem{
		OrderID:   order.ID,
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  qty,
	}
	if err := s.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add item"})
		return
	}

	if err := s.recomputeTotal(order.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order total"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteItem(c *gin.Context) {
	orderID, err := parseID(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order id"})
		return
	}
	itemID, err := parseID(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item id"})
		return
	}

	result := s.db.Where("order_id = ?", orderID).Delete(&models.LineItem{}, itemID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete item"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
		return
	}

	if err := s.recomputeTotal(orderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order total"})
		return
	}

	var order models.Order
	if err := s.db.Preload("Items").First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) closeOrder(c *gin.Context) {
	orderID, err := parseID(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order id"})
		return
	}

	tip, err := decimal.NewFromString(c.DefaultQuery("tip", "0"))
	if err != nil || tip.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid tip"})
		return
	}
	paymentType := c.DefaultQuery("paymentType", models.PaymentCash)
	if !models.ValidPaymentType(paymentType) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payment type"})
		return
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}
	if order.Closed {
		c.JSON(http.StatusConflict, gin.H{"message": "Order is already closed"})
		return
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"closed":       true,
			"tip":          tip,
			"payment_type": paymentType,
		}).Error; err != nil {
			return err
		}
		// Closing an order frees its table in the same transaction; the
		// two must never diverge
		return tx.Model(&models.Table{}).Where("id = ?", order.TableID).Updates(map[string]interface{}{
			"status":   models.StatusFree,
			"order_id": nil,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to close order"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) searchProducts(c *gin.Context) {
	q := c.Query("q")
	var products []models.Product
	if err := s.db.Where("enabled = ? AND name LIKE ?", true, "%"+q+"%").Order("name").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to search products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// recomputeTotal rewrites an order's stored total from its line items
func (s *Server) recomputeTotal(orderID uint) error {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, orderID).Error; err != nil {
		return err
	}
	return s.db.Model(&order).Update("total", order.ComputedTotal()).Error
}

// parseID parses a numeric path/query parameter
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

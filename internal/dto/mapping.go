package dto

import (
	"github.com/samber/lo"

	"medshop/internal/models"
	"medshop/internal/store"
)

// Category projects a category.
func Category(c models.Category) CategoryDto {
	return CategoryDto{ID: c.ID, Name: c.Name, Description: c.Description}
}

// Categories projects a category list.
func Categories(cs []models.Category) []CategoryDto {
	return lo.Map(cs, func(c models.Category, _ int) CategoryDto { return Category(c) })
}

func categoryRef(c *models.Category) *CategoryDto {
	if c == nil {
		return nil
	}
	dto := Category(*c)
	return &dto
}

// Product projects a product with its category.
func Product(p models.Product) ProductDto {
	return ProductDto{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       NewMoney(p.Price),
		Quantity:    p.Quantity,
		SKU:         p.SKU,
		ImageURL:    p.ImageURL,
		Category:    categoryRef(p.Category),
	}
}

// Products projects a product list.
func Products(ps []models.Product) []ProductDto {
	return lo.Map(ps, func(p models.Product, _ int) ProductDto { return Product(p) })
}

// ProductDetail projects a product with its sales history.
func ProductDetail(p models.Product) ProductDetailDto {
	return ProductDetailDto{
		ProductDto: Product(p),
		OrderItems: lo.Map(p.OrderItems, func(i models.OrderItem, _ int) OrderItemDto { return orderItem(i) }),
	}
}

func productSummary(p *models.Product) *ProductSummaryDto {
	if p == nil {
		return nil
	}
	return &ProductSummaryDto{
		ID:       p.ID,
		Name:     p.Name,
		Price:    NewMoney(p.Price),
		Category: categoryRef(p.Category),
	}
}

func userSummary(u *models.User) *UserSummaryDto {
	if u == nil {
		return nil
	}
	return &UserSummaryDto{ID: u.ID, UserName: u.UserName, FullName: u.FullName}
}

// orderSummary projects an order without its items. owner is the user the
// summary reports; callers pass the order's own user or the parent user.
func orderSummary(o models.Order, owner *UserSummaryDto) OrderSummaryDto {
	return OrderSummaryDto{
		ID:          o.ID,
		OrderDate:   NewDate(o.OrderDate),
		TotalAmount: NewMoney(o.Total()),
		Status:      o.Status,
		User:        owner,
	}
}

func orderItem(i models.OrderItem) OrderItemDto {
	dto := OrderItemDto{
		ID:         i.ID,
		OrderID:    i.OrderID,
		Quantity:   i.Quantity,
		UnitPrice:  NewMoney(i.UnitPrice),
		TotalPrice: NewMoney(i.LineTotal()),
	}
	if i.Order != nil {
		s := orderSummary(*i.Order, userSummary(i.Order.User))
		dto.Order = &s
	}
	return dto
}

func orderItemDetail(i models.OrderItem) OrderItemDetailDto {
	return OrderItemDetailDto{
		ID:         i.ID,
		Quantity:   i.Quantity,
		UnitPrice:  NewMoney(i.UnitPrice),
		TotalPrice: NewMoney(i.LineTotal()),
		Product:    productSummary(i.Product),
	}
}

// Order projects an order with its user and item lines. The total is
// recomputed from the items.
func Order(o models.Order) OrderDto {
	return OrderDto{
		ID:          o.ID,
		OrderDate:   NewDate(o.OrderDate),
		TotalAmount: NewMoney(o.Total()),
		Status:      o.Status,
		User:        userSummary(o.User),
		OrderItems:  lo.Map(o.Items, func(i models.OrderItem, _ int) OrderItemDetailDto { return orderItemDetail(i) }),
	}
}

// Orders projects an order list.
func Orders(os []models.Order) []OrderDto {
	return lo.Map(os, func(o models.Order, _ int) OrderDto { return Order(o) })
}

// User projects a user with summaries of their orders. Each summary
// reports the user itself as the owner.
func User(u models.User) UserDto {
	owner := userSummary(&u)
	return UserDto{
		ID:       u.ID,
		UserName: u.UserName,
		FullName: u.FullName,
		Email:    u.Email,
		Orders:   lo.Map(u.Orders, func(o models.Order, _ int) OrderSummaryDto { return orderSummary(o, owner) }),
	}
}

// Users projects a user list.
func Users(us []models.User) []UserDto {
	return lo.Map(us, func(u models.User, _ int) UserDto { return User(u) })
}

// UsersWithExpensiveProducts projects the expensive-products report.
func UsersWithExpensiveProducts(rows []store.UserWithExpensiveProduct) []UserWithExpensiveProductDto {
	return lo.Map(rows, func(r store.UserWithExpensiveProduct, _ int) UserWithExpensiveProductDto {
		return UserWithExpensiveProductDto{UserID: r.UserID, UserName: r.UserName, FullName: r.FullName}
	})
}

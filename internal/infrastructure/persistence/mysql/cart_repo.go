package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookcart/internal/domain/cart"
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
)

// cartRepository 购物车仓储实现
// 教学要点:
// 1. 购物车和明细一起加载,明细按id升序
// 2. LockByID只锁购物车行,同一购物车的所有写操作都先拿这把锁
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(ctx context.Context, c *cart.Cart) error {
	model := toCartModel(c)
	if err := dbFrom(ctx, r.db).Omit("LineItems").Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建购物车失败")
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *cartRepository) FindByID(ctx context.Context, id uint) (*cart.Cart, error) {
	return r.find(dbFrom(ctx, r.db), id)
}

// LockByID SELECT ... FOR UPDATE锁定购物车行
// 教学要点:必须在事务内调用,否则语句结束锁就释放了
func (r *cartRepository) LockByID(ctx context.Context, id uint) (*cart.Cart, error) {
	return r.find(dbFrom(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *cartRepository) find(db *gorm.DB, id uint) (*cart.Cart, error) {
	var model CartModel
	err := db.Preload("LineItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartNotFound
		}
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}
	return toCartEntity(&model), nil
}

// Update 只更新购物车自身字段,明细由LineItemRepository维护
func (r *cartRepository) Update(ctx context.Context, c *cart.Cart) error {
	result := dbFrom(ctx, r.db).Model(&CartModel{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"status":              int(c.Status),
		"total_price":         c.TotalPrice,
		"billing_address_id":  c.BillingAddressID,
		"shipping_address_id": c.ShippingAddressID,
		"delivery_method":     string(c.DeliveryMethod),
		"updated_at":          c.UpdatedAt,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购物车失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartNotFound
	}
	return nil
}

// Delete 先删明细再删购物车
func (r *cartRepository) Delete(ctx context.Context, id uint) error {
	db := dbFrom(ctx, r.db)
	if err := db.Where("cart_id = ?", id).Delete(&LineItemModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除购物车明细失败")
	}
	result := db.Delete(&CartModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除购物车失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartNotFound
	}
	return nil
}

func toCartModel(c *cart.Cart) *CartModel {
	return &CartModel{
		ID:                c.ID,
		CustomerID:        c.CustomerID,
		Status:            int(c.Status),
		TotalPrice:        c.TotalPrice,
		BillingAddressID:  c.BillingAddressID,
		ShippingAddressID: c.ShippingAddressID,
		DeliveryMethod:    string(c.DeliveryMethod),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func toCartEntity(model *CartModel) *cart.Cart {
	items := make([]*cart.LineItem, len(model.LineItems))
	for i := range model.LineItems {
		items[i] = toLineItemEntity(&model.LineItems[i])
	}
	return &cart.Cart{
		ID:                model.ID,
		CustomerID:        model.CustomerID,
		Status:            cart.Status(model.Status),
		TotalPrice:        model.TotalPrice,
		BillingAddressID:  model.BillingAddressID,
		ShippingAddressID: model.ShippingAddressID,
		DeliveryMethod:    cart.DeliveryMethod(model.DeliveryMethod),
		LineItems:         items,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

// lineItemRepository 购物车明细仓储
type lineItemRepository struct {
	db *gorm.DB
}

// NewLineItemRepository 创建明细仓储
func NewLineItemRepository(db *gorm.DB) cart.LineItemRepository {
	return &lineItemRepository{db: db}
}

func (r *lineItemRepository) Create(ctx context.Context, li *cart.LineItem) error {
	if li.Quantity <= 0 {
		return cart.ErrInvalidQuantity
	}
	model := &LineItemModel{
		CartID:     li.CartID,
		BookID:     li.BookID,
		Quantity:   li.Quantity,
		Price:      li.Price,
		TotalPrice: li.TotalPrice,
	}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "购物车中已存在该图书").WithCause(err)
		}
		return apperrors.Wrap(err, "创建购物车明细失败")
	}
	li.ID = model.ID
	li.CreatedAt = model.CreatedAt
	li.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *lineItemRepository) UpdateQuantity(ctx context.Context, li *cart.LineItem) error {
	result := dbFrom(ctx, r.db).Model(&LineItemModel{}).Where("id = ?", li.ID).Updates(map[string]interface{}{
		"quantity":    li.Quantity,
		"total_price": li.TotalPrice,
		"updated_at":  li.UpdatedAt,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购物车明细失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrLineItemNotFound
	}
	return nil
}

func (r *lineItemRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&LineItemModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除购物车明细失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrLineItemNotFound
	}
	return nil
}

func toLineItemEntity(model *LineItemModel) *cart.LineItem {
	return &cart.LineItem{
		ID:         model.ID,
		CartID:     model.CartID,
		BookID:     model.BookID,
		Quantity:   model.Quantity,
		Price:      model.Price,
		TotalPrice: model.TotalPrice,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

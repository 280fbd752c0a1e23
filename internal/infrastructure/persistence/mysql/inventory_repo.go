package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookcart/internal/domain/inventory"
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
	"github.com/xiebiao/bookcart/pkg/query"
)

// inventoryRepository 库存仓储实现
// 教学要点:防超卖的两道锁
// 1. LockByBookID: SELECT ... FOR UPDATE,并发扣减在行锁上排队
// 2. DecrementStock: UPDATE ... WHERE stock >= ?,即使没拿锁也不会扣成负数
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓储
func NewInventoryRepository(db *gorm.DB) inventory.Repository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, inv *inventory.Inventory) error {
	model := &InventoryModel{BookID: inv.BookID, Stock: inv.Stock}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "库存记录已存在").WithCause(err)
		}
		return apperrors.Wrap(err, "创建库存失败")
	}
	inv.CreatedAt = model.CreatedAt
	inv.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *inventoryRepository) FindByBookID(ctx context.Context, bookID uint) (*inventory.Inventory, error) {
	return r.find(dbFrom(ctx, r.db), bookID)
}

func (r *inventoryRepository) LockByBookID(ctx context.Context, bookID uint) (*inventory.Inventory, error) {
	return r.find(dbFrom(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), bookID)
}

func (r *inventoryRepository) find(db *gorm.DB, bookID uint) (*inventory.Inventory, error) {
	var model InventoryModel
	if err := db.Where("book_id = ?", bookID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrInventoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询库存失败")
	}
	return &inventory.Inventory{
		BookID:    model.BookID,
		Stock:     model.Stock,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

// DecrementStock 条件扣减
// UPDATE inventories SET stock = stock - ? WHERE book_id = ? AND stock >= ?
func (r *inventoryRepository) DecrementStock(ctx context.Context, bookID uint, quantity int) (bool, error) {
	result := dbFrom(ctx, r.db).Model(&InventoryModel{}).
		Where("book_id = ? AND stock >= ?", bookID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, apperrors.Wrap(result.Error, "扣减库存失败")
	}
	return result.RowsAffected == 1, nil
}

// inventoryLogRepository 库存日志仓储
type inventoryLogRepository struct {
	db *gorm.DB
}

// NewInventoryLogRepository 创建库存日志仓储
func NewInventoryLogRepository(db *gorm.DB) inventory.LogRepository {
	return &inventoryLogRepository{db: db}
}

// BatchCreate 一条INSERT写入多行
func (r *inventoryLogRepository) BatchCreate(ctx context.Context, logs []*inventory.Log) error {
	if len(logs) == 0 {
		return nil
	}
	models := make([]InventoryLogModel, len(logs))
	for i, l := range logs {
		models[i] = InventoryLogModel{
			BookID:      l.BookID,
			ChangeType:  string(l.ChangeType),
			Quantity:    l.Quantity,
			BeforeStock: l.BeforeStock,
			AfterStock:  l.AfterStock,
			OrderID:     l.OrderID,
			Remark:      l.Remark,
		}
	}
	if err := dbFrom(ctx, r.db).Create(&models).Error; err != nil {
		return apperrors.Wrap(err, "写入库存日志失败")
	}
	for i := range logs {
		logs[i].ID = models[i].ID
		logs[i].CreatedAt = models[i].CreatedAt
	}
	return nil
}

func (r *inventoryLogRepository) ListByBookID(ctx context.Context, bookID uint, page query.Pagination) ([]*inventory.Log, int64, error) {
	db := dbFrom(ctx, r.db).Model(&InventoryLogModel{}).Where("book_id = ?", bookID).Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询库存日志总数失败")
	}

	var models []InventoryLogModel
	if err := db.Scopes(paginate(page)).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询库存日志失败")
	}

	logs := make([]*inventory.Log, len(models))
	for i, m := range models {
		logs[i] = &inventory.Log{
			ID:          m.ID,
			BookID:      m.BookID,
			ChangeType:  inventory.ChangeType(m.ChangeType),
			Quantity:    m.Quantity,
			BeforeStock: m.BeforeStock,
			AfterStock:  m.AfterStock,
			OrderID:     m.OrderID,
			Remark:      m.Remark,
			CreatedAt:   m.CreatedAt,
		}
	}
	return logs, total, nil
}

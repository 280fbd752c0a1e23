package mysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookcart/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架，database.driver选择mysql或postgres
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 表结构迁移由migrate命令或启动时的AutoMigrate完成
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := openDialector(cfg.Database)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true, // 唯一索引冲突统一翻译为gorm.ErrDuplicatedKey
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功",
		zap.String("driver", cfg.Database.Driver),
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName))
	return db, nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL, "":
		return mysql.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// AutoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&InventoryModel{},
		&InventoryLogModel{},
		&CartModel{},
		&LineItemModel{},
		&OrderModel{},
		&OrderItemModel{},
	)
}

// UserModel GORM用户模型
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (UserModel) TableName() string { return "users" }

// BookModel GORM图书模型
// 价格使用int64存储"分"，库存在inventories表
type BookModel struct {
	ID          uint           `gorm:"primaryKey"`
	ISBN        string         `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title       string         `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author      string         `gorm:"index:idx_search;size:100;not null;comment:作者"`
	Publisher   string         `gorm:"size:100;not null;comment:出版社"`
	Price       int64          `gorm:"index;not null;comment:价格(分)"`
	CoverURL    string         `gorm:"size:500;comment:封面图片URL"`
	Description string         `gorm:"type:text;comment:图书描述"`
	PublisherID uint           `gorm:"index;not null;comment:发布者用户ID"`
	CreatedAt   time.Time      `gorm:"comment:创建时间"`
	UpdatedAt   time.Time      `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

func (BookModel) TableName() string { return "books" }

// InventoryModel 库存表，每本书一行
// 教学要点:stock上的CHECK约束是防超卖的最后一道防线
type InventoryModel struct {
	BookID    uint      `gorm:"primaryKey;autoIncrement:false;comment:图书ID"`
	Stock     int       `gorm:"not null;default:0;check:chk_inventories_stock,stock >= 0;comment:可售库存"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (InventoryModel) TableName() string { return "inventories" }

// InventoryLogModel 库存变更日志(只追加)
type InventoryLogModel struct {
	ID          uint      `gorm:"primaryKey"`
	BookID      uint      `gorm:"index;not null;comment:图书ID"`
	ChangeType  string    `gorm:"size:16;not null;comment:变更类型(INIT/RESERVE)"`
	Quantity    int       `gorm:"not null;comment:变更数量(扣减为负)"`
	BeforeStock int       `gorm:"not null;comment:变更前库存"`
	AfterStock  int       `gorm:"not null;comment:变更后库存"`
	OrderID     uint      `gorm:"index;comment:关联订单ID"`
	Remark      string    `gorm:"size:255;comment:备注"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
}

func (InventoryLogModel) TableName() string { return "inventory_logs" }

// CartModel 购物车表
// Status: 1=active 2=inactive(已下单)
type CartModel struct {
	ID                uint            `gorm:"primaryKey"`
	CustomerID        uint            `gorm:"index;not null;comment:顾客ID"`
	Status            int             `gorm:"type:smallint;not null;default:1;comment:状态(1可修改2已下单)"`
	TotalPrice        int64           `gorm:"not null;default:0;comment:总价(分)"`
	BillingAddressID  *uint           `gorm:"comment:账单地址ID"`
	ShippingAddressID *uint           `gorm:"comment:收货地址ID"`
	DeliveryMethod    string          `gorm:"size:16;comment:配送方式"`
	LineItems         []LineItemModel `gorm:"foreignKey:CartID"`
	CreatedAt         time.Time       `gorm:"comment:创建时间"`
	UpdatedAt         time.Time       `gorm:"comment:更新时间"`
}

func (CartModel) TableName() string { return "carts" }

// LineItemModel 购物车明细
// 同一购物车中每本书只有一行
type LineItemModel struct {
	ID         uint      `gorm:"primaryKey"`
	CartID     uint      `gorm:"uniqueIndex:idx_cart_book;not null;comment:购物车ID"`
	BookID     uint      `gorm:"uniqueIndex:idx_cart_book;not null;comment:图书ID"`
	Quantity   int       `gorm:"not null;check:chk_line_items_quantity,quantity > 0;comment:数量"`
	Price      int64     `gorm:"not null;comment:加入时单价(分)"`
	TotalPrice int64     `gorm:"not null;comment:小计(分)"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

func (LineItemModel) TableName() string { return "line_items" }

// OrderModel GORM订单模型
// 教学要点:
// 1. 与OrderItemModel是一对多关系
// 2. OrderNo有唯一索引(业务主键)
// 3. 一个购物车只能生成一个订单(cart_id唯一)
type OrderModel struct {
	ID            uint             `gorm:"primaryKey"`
	OrderNo       string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	CustomerID    uint             `gorm:"index;not null;comment:顾客ID"`
	CartID        uint             `gorm:"uniqueIndex;not null;comment:来源购物车ID"`
	PaymentMethod string           `gorm:"size:32;not null;comment:支付方式"`
	Total         int64            `gorm:"not null;comment:订单总金额(分)"`
	Status        int              `gorm:"index;type:smallint;default:1;comment:订单状态(1待支付2已支付3已发货4已完成5已取消)"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt     time.Time        `gorm:"comment:更新时间"`
}

func (OrderModel) TableName() string { return "orders" }

// OrderItemModel 订单明细,记录下单时的价格快照
type OrderItemModel struct {
	ID         uint  `gorm:"primaryKey"`
	OrderID    uint  `gorm:"index;not null;comment:订单ID"`
	BookID     uint  `gorm:"index;not null;comment:图书ID"`
	Quantity   int   `gorm:"not null;comment:购买数量"`
	Price      int64 `gorm:"not null;comment:下单时单价(分)"`
	TotalPrice int64 `gorm:"not null;comment:小计(分)"`
}

func (OrderItemModel) TableName() string { return "order_items" }

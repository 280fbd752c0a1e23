// Package transaction 定义工作单元（Unit of Work）抽象
//
// 领域层和应用层只依赖Manager接口，具体实现由infrastructure提供（mysql.TxManager）。
package transaction

import "context"

// Manager 事务管理器
//
// 约定：
//  1. fn内的所有仓储读写使用同一个数据库事务（通过ctx传递事务句柄）
//  2. fn返回error则回滚，返回nil则提交
//  3. 已处于事务中的ctx再次调用Transaction时直接复用外层事务，不创建Savepoint
type Manager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

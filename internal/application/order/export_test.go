package order

// SetOrderNoGenerator 替换订单号生成函数
func (uc *CreateOrderUseCase) SetOrderNoGenerator(gen func() string) {
	uc.newOrderNo = gen
}

package commands

import (
	"context"
)

type SetStockCommandHandler struct {
	uowFactory InventoryUoWFactory
}

func NewSetStockCommandHandler(uowFactory InventoryUoWFactory) SetStockCommandHandler {
	return SetStockCommandHandler{uowFactory: uowFactory}
}

func (h *SetStockCommandHandler) Handle(ctx context.Context, cmd SetStockCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.InventoryRepository().SetStock(ctx, cmd.Level()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

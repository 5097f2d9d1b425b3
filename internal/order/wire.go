package order

import (
	"context"
	"database/sql"

	"brewline/internal/feed"
	"brewline/internal/order/controller"
	"brewline/internal/order/repository"
	"brewline/internal/order/usecase"

	"go.uber.org/zap"
)

func NewModule(db *sql.DB, publisher *feed.Broadcaster, logger *zap.Logger) *controller.Controller {
	repo := repository.NewMySQLOrderRepository(db)

	submitUC := usecase.NewSubmitOrderUseCase(repo, publisher, logger)
	transitionUC := usecase.NewTransitionUseCase(repo, publisher, logger)

	// Prime the feed with the persisted collection; without this a restart
	// leaves terminals waiting for the first mutation before any delivery.
	transitionUC.Refresh(context.Background())

	return controller.NewController(submitUC, transitionUC, logger)
}

package menu

import (
	"database/sql"

	"brewline/internal/menu/repository"
	"brewline/internal/menu/service"

	"go.uber.org/zap"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLMenuRepository(db)
	svc := service.NewMenuService(repo, logger)
	return NewController(svc, logger)
}

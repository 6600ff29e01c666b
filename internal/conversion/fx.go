package conversion

import (
	"github.com/smallbiznis/convtrack/internal/conversion/domain"
	"github.com/smallbiznis/convtrack/internal/conversion/repository"
	"github.com/smallbiznis/convtrack/internal/conversion/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("conversion.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Invoke(migrate),
)

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Conversion{})
}

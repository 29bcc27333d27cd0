package postgres

import (
	"partnerdelivery/internal/adapters/out/postgres/credentialrepo"
	"partnerdelivery/internal/adapters/out/postgres/ledgerrepo"
	"partnerdelivery/internal/adapters/out/postgres/orderrepo"
	"partnerdelivery/internal/adapters/out/postgres/partnerrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&partnerrepo.PartnerDTO{},
		&partnerrepo.SavedLocationDTO{},
		&ledgerrepo.TransactionDTO{},
		&credentialrepo.CredentialDTO{},
	)
}

package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	repo "github.com/vya-logistics/vya-backend/internal/repository"
)

type Repositories struct {
	Users              repo.Users
	Trips              repo.Trips
	Packages           repo.Packages
	Wallets            repo.Wallets
	WalletTransactions repo.WalletTransactions
	Configs            repo.Configs
	Notifications      repo.Notifications
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:              &usersRepo{pool},
		Trips:              &tripsRepo{pool},
		Packages:           &packagesRepo{pool},
		Wallets:            &walletsRepo{pool},
		WalletTransactions: &walletTxnsRepo{pool},
		Configs:            &configsRepo{pool},
		Notifications:      &notificationsRepo{pool},
	}
}

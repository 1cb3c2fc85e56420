package app

import (
	"github.com/riskibarqy/prissleague/external/supabase"
	"github.com/riskibarqy/prissleague/internal/config"
	"github.com/riskibarqy/prissleague/internal/platform/logging"
	"github.com/riskibarqy/prissleague/internal/usecase"
)

// NewMaintenanceService wires the maintenance jobs. The auth admin client
// is built only when withAuthUsers is set.
func NewMaintenanceService(cfg config.Config, repos Repositories, withAuthUsers bool, logger *logging.Logger) (*usecase.MaintenanceService, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var authUsers usecase.AuthUserProvider
	if withAuthUsers {
		if err := cfg.ValidateAuthBackfill(); err != nil {
			return nil, err
		}
		client, err := supabase.NewAuthAdminClient(supabase.AuthAdminConfig{
			BaseURL:        cfg.SupabaseURL,
			ServiceRoleKey: cfg.SupabaseServiceRoleKey,
			Timeout:        cfg.SupabaseAuthTimeout,
			Logger:         logger,
			CircuitBreaker: cfg.SupabaseCircuitBreaker(),
		})
		if err != nil {
			return nil, err
		}
		authUsers = client
	}

	return usecase.NewMaintenanceService(
		usecase.MaintenanceConfig{Concurrency: cfg.MaintenanceConcurrency},
		repos.Players,
		repos.Matches,
		authUsers,
		logger,
	), nil
}

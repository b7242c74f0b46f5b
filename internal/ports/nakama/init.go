package nakama

import (
	"context"
	"database/sql"
	"time"

	"tilemerge/internal/app"
	"tilemerge/internal/bot"
	"tilemerge/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and the autoplay match handler for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadSearchConfig("data/search_config.json"); err != nil {
		logger.Warn("InitModule: Could not load search config, using defaults: %v", err)
	}
	env := envFrom(ctx)
	cfg := config.GetSearchConfig().WithEnv(env)

	if secret := env[envTicketSecret]; secret != "" {
		issuer := env[envTicketIssuer]
		if issuer == "" {
			issuer = defaultTicketIssuer
		}
		ticketService = app.NewTicketService(secret, issuer, time.Duration(cfg.TicketTTLSeconds)*time.Second)
	} else {
		logger.Warn("InitModule: %s is not set, %s is disabled.", envTicketSecret, RpcIDStartSession)
	}

	if err := bot.LoadProfiles("data/agent_profiles.json"); err != nil {
		logger.Warn("InitModule: Could not load agent profiles: %v", err)
	} else if err := bot.ProvisionAgents(ctx, nk, logger); err != nil {
		logger.Warn("InitModule: Could not provision agents: %v", err)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}
	if err := initializer.RegisterMatch(MatchNameAutoplay, NewMatch); err != nil {
		return err
	}

	logger.Info("TileMerge Go module loaded (%s/%s).", cfg.Algorithm, cfg.Heuristic)
	return nil
}

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/cardtrack/internal/common"
	"github.com/dmitrijs2005/cardtrack/internal/dbx"
	"github.com/dmitrijs2005/cardtrack/internal/logging"
	"github.com/dmitrijs2005/cardtrack/internal/server/auth"
	"github.com/dmitrijs2005/cardtrack/internal/server/config"
	"github.com/dmitrijs2005/cardtrack/internal/server/repositories/repomanager"
)

// Guard answers the two questions every protected operation asks: who is
// calling, and may they touch a resource owned by someone else.
type Guard struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	logger      logging.Logger
}

func NewGuard(db dbx.DBTX, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *Guard {
	return &Guard{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		logger:      logger.With("module", "guard"),
	}
}

// Bind returns a Guard whose lookups run on db, typically the transaction
// that holds the lock on the resource being authorized.
func (g *Guard) Bind(db dbx.DBTX) *Guard {
	c := *g
	c.db = db
	return &c
}

// ResolveCaller extracts the user id from a bearer token. A missing,
// malformed, forged or expired token yields *common.AuthError.
func (g *Guard) ResolveCaller(token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, &common.AuthError{Err: common.ErrUnauthenticated}
	}

	id, err := auth.GetUserIDFromToken(token, g.jwtSecret)
	if err != nil {
		return 0, &common.AuthError{Err: errors.Join(common.ErrUnauthenticated, err)}
	}
	return id, nil
}

// IsAdmin fails closed: an unknown user or a storage error means false.
func (g *Guard) IsAdmin(ctx context.Context, userID int64) bool {
	user, err := g.repomanager.Users(g.db).GetUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			g.logger.Warn(ctx, "admin lookup failed", "user_id", userID, "error", err)
		}
		return false
	}
	return user.IsAdmin
}

// Authorize permits the owner and administrators.
func (g *Guard) Authorize(ctx context.Context, callerID, ownerID int64) bool {
	if callerID == ownerID {
		return true
	}
	return g.IsAdmin(ctx, callerID)
}

// Package dispatch routes administrator decisions to the API and keeps the local cache
// consistent with what the server confirmed.
package dispatch

import (
	"context"
	"fmt"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/store"
)

// Backend is the remote side of a decision. It is implemented by client.Client.
type Backend interface {
	Decide(ctx context.Context, entity lifecycle.Entity, id int32, action lifecycle.Action, p lifecycle.Payload) (domain.Reviewable, error)
	UpdateShares(ctx context.Context, userID, sharesOwned, availableShares int32) (*domain.User, error)
	DeductSharesFromAll(ctx context.Context, amount int32, reason string) (*domain.DeductionResult, error)
}

type Dispatcher struct {
	backend Backend
	cache   *store.Cache
	actor   lifecycle.Actor
}

func New(backend Backend, cache *store.Cache, actor lifecycle.Actor) *Dispatcher {
	if cache == nil {
		cache = store.NewCache()
	}
	return &Dispatcher{backend: backend, cache: cache, actor: actor}
}

func (d *Dispatcher) Cache() *store.Cache {
	return d.cache
}

// Dispatch validates and sends one decision. The cache is only touched after the server accepts it.
func (d *Dispatcher) Dispatch(ctx context.Context, entity lifecycle.Entity, id int32, action lifecycle.Action, p lifecycle.Payload) (domain.Reviewable, error) {
	method := fmt.Sprintf("Dispatcher.Dispatch(%s.%s)", entity, action)
	logger.EnterMethod(method, "id", id)

	if err := lifecycle.CheckPayload(entity, action, p); err != nil {
		logger.ExitMethodWithError(method, err, "id", id, "stage", "payload")
		return nil, err
	}

	if cached, ok := d.cache.Get(entity, id); ok {
		if _, err := lifecycle.Transition(entity, cached.CurrentStatus(), action, d.actor, cached.OwnerID()); err != nil {
			logger.ExitMethodWithError(method, err, "id", id, "stage", "precheck", "status", cached.CurrentStatus())
			return nil, err
		}
	}

	updated, err := d.backend.Decide(ctx, entity, id, action, p)
	if err != nil {
		logger.ExitMethodWithError(method, err, "id", id, "stage", "backend")
		return nil, err
	}

	d.cache.Put(entity, updated)
	logger.ExitMethod(method, "id", id, "status", updated.CurrentStatus())
	return updated, nil
}

// UpdateShares sets a member's share balances. It never changes activation.
func (d *Dispatcher) UpdateShares(ctx context.Context, userID, sharesOwned, availableShares int32) (*domain.User, error) {
	if !d.actor.IsStaff {
		return nil, domain.NewError(domain.ErrForbidden, "only administrators can update shares")
	}
	if sharesOwned < 0 || availableShares < 0 {
		return nil, domain.Validationf("share balances cannot be negative")
	}

	u, err := d.backend.UpdateShares(ctx, userID, sharesOwned, availableShares)
	if err != nil {
		logger.Error("Share update failed", "userID", userID, "error", err)
		return nil, err
	}
	d.cache.Put(lifecycle.EntityUser, u)
	logger.Info("Shares updated", "userID", userID, "sharesOwned", u.SharesOwned, "availableShares", u.AvailableShares)
	return u, nil
}

// DeductSharesFromAll runs the bulk deduction and refreshes every user it reports back.
func (d *Dispatcher) DeductSharesFromAll(ctx context.Context, amount int32, reason string) (*domain.DeductionResult, error) {
	if !d.actor.IsStaff {
		return nil, domain.NewError(domain.ErrForbidden, "only administrators can deduct shares")
	}
	if amount <= 0 {
		return nil, domain.Validationf("deduction amount must be greater than zero")
	}
	if err := lifecycle.CheckPayload(lifecycle.EntityUser, lifecycle.ActionDeactivate, lifecycle.Payload{Reason: reason}); err != nil {
		return nil, domain.Validationf("a reason is required for share deductions")
	}

	res, err := d.backend.DeductSharesFromAll(ctx, amount, reason)
	if err != nil {
		logger.Error("Bulk share deduction failed", "amount", amount, "error", err)
		return nil, err
	}
	for i := range res.Users {
		d.cache.Put(lifecycle.EntityUser, &res.Users[i])
	}
	logger.Info("Bulk share deduction applied", "amount", amount, "usersAffected", res.UsersAffected, "usersDeactivated", res.UsersDeactivated)
	return res, nil
}

// Package contracts serves session-gated, enriched views over one
// corporation's ESI contracts.
package contracts

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/evebay/evebay-api/esi"
	errs "github.com/evebay/evebay-api/internal/errors"
)

// itemNameWorkers bounds the enrichment fan-out so a contract with a huge
// item list cannot open an unbounded number of upstream connections.
const itemNameWorkers = 8

// Client is the slice of the ESI client the aggregator needs.
type Client interface {
	CorporationContracts(ctx context.Context, corporationID int, accessToken string) ([]esi.Contract, error)
	PublicContract(ctx context.Context, contractID int, accessToken string) (*esi.Contract, error)
	ContractItems(ctx context.Context, corporationID, contractID int, accessToken string) ([]esi.ContractItem, error)
}

// TokenSource resolves an opaque session id to a live access token.
type TokenSource interface {
	AccessToken(sessionID string) (string, bool)
}

// Service aggregates the contract resources of the configured corporation.
type Service struct {
	tokens        TokenSource
	client        Client
	names         *TypeNameCache
	corporationID int
}

func NewService(tokens TokenSource, client Client, names *TypeNameCache, corporationID int) (*Service, error) {
	if tokens == nil {
		return nil, errors.New("[NewService] token source is required")
	}
	if client == nil {
		return nil, errors.New("[NewService] esi client is required")
	}
	if names == nil {
		return nil, errors.New("[NewService] type name cache is required")
	}

	return &Service{
		tokens:        tokens,
		client:        client,
		names:         names,
		corporationID: corporationID,
	}, nil
}

// ListContracts returns the corporation's contracts. Unless includeFinished
// is set, finished contracts are dropped after the fetch; the upstream call
// itself is never parameterized by the flag.
func (s *Service) ListContracts(ctx context.Context, sessionID string, includeFinished bool) ([]esi.Contract, error) {
	token, ok := s.tokens.AccessToken(sessionID)
	if !ok {
		return nil, errs.ErrUnauthorized
	}

	contracts, err := s.client.CorporationContracts(ctx, s.corporationID, token)
	if err != nil {
		return nil, errs.Wrapf(err, "listing contracts for corporation %d", s.corporationID)
	}

	if !includeFinished {
		filtered := make([]esi.Contract, 0, len(contracts))
		for _, contract := range contracts {
			if strings.EqualFold(contract.Status, "finished") {
				continue
			}
			filtered = append(filtered, contract)
		}
		contracts = filtered
	}

	log.Info().Int("corporation_id", s.corporationID).Int("count", len(contracts)).Msg("retrieved corporation contracts")
	return contracts, nil
}

// GetContract returns the details of a single public contract.
func (s *Service) GetContract(ctx context.Context, sessionID string, contractID int) (*esi.Contract, error) {
	token, ok := s.tokens.AccessToken(sessionID)
	if !ok {
		return nil, errs.ErrUnauthorized
	}

	contract, err := s.client.PublicContract(ctx, contractID, token)
	if err != nil {
		return nil, errs.Wrapf(err, "fetching contract %d", contractID)
	}
	return contract, nil
}

// GetContractItems returns a contract's line items with display names
// resolved through the type-name cache. Lookups run concurrently under a
// worker limit; the upstream item order is preserved.
func (s *Service) GetContractItems(ctx context.Context, sessionID string, contractID int) ([]esi.ContractItem, error) {
	token, ok := s.tokens.AccessToken(sessionID)
	if !ok {
		return nil, errs.ErrUnauthorized
	}

	items, err := s.client.ContractItems(ctx, s.corporationID, contractID, token)
	if err != nil {
		return nil, errs.Wrapf(err, "fetching items for contract %d", contractID)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(itemNameWorkers)
	for i := range items {
		i := i
		group.Go(func() error {
			items[i].ItemName = s.names.Resolve(groupCtx, items[i].TypeID).Name
			return nil
		})
	}
	// Name resolution never fails, it degrades to placeholders.
	_ = group.Wait()

	log.Info().Int("contract_id", contractID).Int("count", len(items)).Msg("retrieved contract items")
	return items, nil
}

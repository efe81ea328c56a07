package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	errs "github.com/evebay/evebay-api/internal/errors"
)

// ContractsHandler lists the corporation's contracts. Finished contracts
// are excluded unless includeFinished=true.
func (s *Server) ContractsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := s.sessionID(r)
		if sessionID == "" {
			writeError(w, http.StatusUnauthorized, "no session found")
			return
		}
		includeFinished, _ := strconv.ParseBool(r.URL.Query().Get("includeFinished"))

		contracts, err := s.contracts.ListContracts(r.Context(), sessionID, includeFinished)
		if err != nil {
			if errs.Is(err, errs.ErrUnauthorized) {
				writeError(w, http.StatusUnauthorized, "invalid session")
				return
			}
			log.Error().Err(err).Msg("failed to get contracts")
			writeError(w, http.StatusInternalServerError, "failed to get contracts")
			return
		}
		writeJSON(w, http.StatusOK, contracts)
	}
}

// ContractDetailsHandler returns one contract.
func (s *Server) ContractDetailsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := s.sessionID(r)
		if sessionID == "" {
			writeError(w, http.StatusUnauthorized, "no session found")
			return
		}
		contractID, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid contract id")
			return
		}

		contract, err := s.contracts.GetContract(r.Context(), sessionID, contractID)
		if err != nil {
			switch {
			case errs.Is(err, errs.ErrUnauthorized):
				writeError(w, http.StatusUnauthorized, "invalid session")
			case errs.Is(err, errs.ErrNotFound):
				writeError(w, http.StatusNotFound, "contract not found")
			default:
				log.Error().Err(err).Int("contract_id", contractID).Msg("failed to get contract details")
				writeError(w, http.StatusInternalServerError, "failed to get contract details")
			}
			return
		}
		writeJSON(w, http.StatusOK, contract)
	}
}

// ContractItemsHandler returns a contract's enriched line items.
func (s *Server) ContractItemsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := s.sessionID(r)
		if sessionID == "" {
			writeError(w, http.StatusUnauthorized, "no session found")
			return
		}
		contractID, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid contract id")
			return
		}

		items, err := s.contracts.GetContractItems(r.Context(), sessionID, contractID)
		if err != nil {
			switch {
			case errs.Is(err, errs.ErrUnauthorized):
				writeError(w, http.StatusUnauthorized, "invalid session")
			case errs.Is(err, errs.ErrNotFound):
				writeError(w, http.StatusNotFound, "no items found for this contract")
			default:
				log.Error().Err(err).Int("contract_id", contractID).Msg("failed to get contract items")
				writeError(w, http.StatusInternalServerError, "failed to get contract items")
			}
			return
		}
		if len(items) == 0 {
			writeError(w, http.StatusNotFound, "no items found for this contract")
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

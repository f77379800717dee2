package httpinterface

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/application"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
	"github.com/rakesh-sdlc/ng-contracts/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// operatorHeader carries the caller identity on every mutating route. The
// application layer decides whether that identity is the owner.
const operatorHeader = "X-Operator"

type handler struct {
	adminSvc  application.AdminService
	supplySvc application.Service
}

func newRouter(adminSvc application.AdminService, supplySvc application.Service) http.Handler {
	h := &handler{adminSvc: adminSvc, supplySvc: supplySvc}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/status", h.status)
	mux.HandleFunc("GET /v1/events/{topic}", h.listEvents)
	mux.HandleFunc("POST /v1/admin/pause", h.pause)
	mux.HandleFunc("POST /v1/admin/unpause", h.unpause)
	mux.HandleFunc("POST /v1/admin/extension", h.initializeExtension)

	mux.HandleFunc("POST /v1/assets", h.registerAsset)
	mux.HandleFunc("GET /v1/assets", h.listAssets)
	mux.HandleFunc("GET /v1/assets/{name}", h.getAsset)
	mux.HandleFunc("DELETE /v1/assets/{name}", h.unregisterAsset)
	mux.HandleFunc("GET /v1/assets/{name}/id", h.getAssetId)
	mux.HandleFunc("GET /v1/assets/{name}/registered", h.isAssetRegistered)
	mux.HandleFunc("PUT /v1/assets/{name}/custody", h.changeCustodyWallet)
	mux.HandleFunc("GET /v1/assets/{name}/fee", h.getAssetFee)
	mux.HandleFunc("PUT /v1/assets/{name}/fee", h.setAssetFee)
	mux.HandleFunc("GET /v1/assets/{name}/supply", h.totalSupply)

	mux.HandleFunc("POST /v1/assets/{name}/mint", h.mint)
	mux.HandleFunc("POST /v1/assets/{name}/mint-custody", h.mintToCustodyWallet)
	mux.HandleFunc("POST /v1/assets/{name}/burn", h.burn)
	mux.HandleFunc("POST /v1/assets/{name}/burn-custody", h.burnFromCustodyWallet)
	mux.HandleFunc("POST /v1/assets/{name}/batch-mint", h.batchMint)
	mux.HandleFunc("POST /v1/assets/{name}/batch-burn", h.batchBurn)

	return mux
}

type registerAssetRequest struct {
	Name          string `json:"name"`
	TokenAddress  string `json:"token_address"`
	CustodyWallet string `json:"custody_wallet"`
}

type custodyWalletRequest struct {
	CustodyWallet string `json:"custody_wallet"`
}

type feeRequest struct {
	Fee uint64 `json:"fee"`
}

type amountRequest struct {
	Amount uint64 `json:"amount"`
}

type transferRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

type batchRequest struct {
	Accounts []string `json:"accounts"`
	Amounts  []uint64 `json:"amounts"`
}

type assetResponse struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	TokenAddress  string `json:"token_address"`
	CustodyWallet string `json:"custody_wallet"`
	CreatedAt     int64  `json:"created_at"`
}

type statusResponse struct {
	Owner                string `json:"owner"`
	Paused               bool   `json:"paused"`
	Version              uint32 `json:"version"`
	ExtensionInitialized bool   `json:"extension_initialized"`
	RegisteredAssets     int    `json:"registered_assets"`
}

type eventResponse struct {
	Type string       `json:"type"`
	Data domain.Event `json:"data"`
}

type errorResponse struct {
	Error errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	status, err := h.adminSvc.Status(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Owner:                status.Owner.String(),
		Paused:               status.Paused,
		Version:              status.Version,
		ExtensionInitialized: status.ExtensionInitialized,
		RegisteredAssets:     status.RegisteredAssets,
	})
}

func (h *handler) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.adminSvc.ListEvents(r.Context(), r.PathValue("topic"))
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]eventResponse, 0, len(events))
	for _, event := range events {
		resp = append(resp, eventResponse{
			Type: string(event.Type()),
			Data: event,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) pause(w http.ResponseWriter, r *http.Request) {
	operator, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	if err := h.adminSvc.Pause(r.Context(), operator); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": true})
}

func (h *handler) unpause(w http.ResponseWriter, r *http.Request) {
	operator, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	if err := h.adminSvc.Unpause(r.Context(), operator); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": false})
}

func (h *handler) initializeExtension(w http.ResponseWriter, r *http.Request) {
	operator, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	if err := h.adminSvc.InitializeExtension(r.Context(), operator); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint32{"version": domain.FeeExtensionVersion})
}

func (h *handler) registerAsset(w http.ResponseWriter, r *http.Request) {
	operator, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	var req registerAssetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tokenAddress, ok := parseAddress(w, req.TokenAddress, "token_address")
	if !ok {
		return
	}
	custodyWallet, ok := parseAddress(w, req.CustodyWallet, "custody_wallet")
	if !ok {
		return
	}

	info, err := h.adminSvc.RegisterAsset(
		r.Context(), operator, req.Name, tokenAddress, custodyWallet,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssetResponse(*info))
}

func (h *handler) unregisterAsset(w http.ResponseWriter, r *http.Request) {
	operator, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	if err := h.adminSvc.UnregisterAsset(r.Context(), operator, r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"unregistered": true})
}

func (h *handler) changeCustodyWallet(w http.ResponseWriter, r *http.Request) {
	operator, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	var req custodyWalletRequest
	if !decodeBody(w, r, &req) {
		return
	}
	newWallet, ok := parseAddress(w, req.CustodyWallet, "custody_wallet")
	if !ok {
		return
	}
	if err := h.adminSvc.ChangeCustodyWallet(
		r.Context(), operator, r.PathValue("name"), newWallet,
	); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"custody_wallet": newWallet.String()})
}

func (h *handler) listAssets(w http.ResponseWriter, r *http.Request) {
	infos, err := h.adminSvc.ListAssets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]assetResponse, 0, len(infos))
	for _, info := range infos {
		resp = append(resp, toAssetResponse(info))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) getAsset(w http.ResponseWriter, r *http.Request) {
	info, err := h.adminSvc.GetAsset(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetResponse(*info))
}

func (h *handler) getAssetId(w http.ResponseWriter, r *http.Request) {
	id := h.adminSvc.GetAssetId(r.PathValue("name"))
	writeJSON(w, http.StatusOK, map[string]string{"asset_id": id.String()})
}

func (h *handler) isAssetRegistered(w http.ResponseWriter, r *http.Request) {
	registered, err := h.adminSvc.IsAssetRegistered(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"registered": registered})
}

func (h *handler) getAssetFee(w http.ResponseWriter, r *http.Request) {
	fee, err := h.adminSvc.GetAssetFee(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"fee": fee})
}

func (h *handler) setAssetFee(w http.ResponseWriter, r *http.Request) {
	operator, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	var req feeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.adminSvc.SetAssetFee(
		r.Context(), operator, r.PathValue("name"), req.Fee,
	); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"fee": req.Fee})
}

func (h *handler) totalSupply(w http.ResponseWriter, r *http.Request) {
	supply, err := h.supplySvc.TotalSupply(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"total_supply": supply})
}

func (h *handler) mint(w http.ResponseWriter, r *http.Request) {
	operator, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	var req transferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	to, ok := parseAddress(w, req.Account, "account")
	if !ok {
		return
	}
	if err := h.supplySvc.Mint(
		r.Context(), operator, r.PathValue("name"), to, req.Amount,
	); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"minted": req.Amount})
}

func (h *handler) mintToCustodyWallet(w http.ResponseWriter, r *http.Request) {
	operator, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	var body amountRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := h.supplySvc.MintToCustodyWallet(
		r.Context(), operator, r.PathValue("name"), body.Amount,
	); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"minted": body.Amount})
}

func (h *handler) burn(w http.ResponseWriter, r *http.Request) {
	operator, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	var req transferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	from, ok := parseAddress(w, req.Account, "account")
	if !ok {
		return
	}
	if err := h.supplySvc.Burn(
		r.Context(), operator, r.PathValue("name"), from, req.Amount,
	); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"burned": req.Amount})
}

func (h *handler) burnFromCustodyWallet(w http.ResponseWriter, r *http.Request) {
	operator, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	var body amountRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := h.supplySvc.BurnFromCustodyWallet(
		r.Context(), operator, r.PathValue("name"), body.Amount,
	); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"burned": body.Amount})
}

func (h *handler) batchMint(w http.ResponseWriter, r *http.Request) {
	operator, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	var req batchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	recipients, ok := parseAddresses(w, req.Accounts)
	if !ok {
		return
	}
	if err := h.supplySvc.BatchMint(
		r.Context(), operator, r.PathValue("name"), recipients, req.Amounts,
	); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"minted_accounts": len(recipients)})
}

func (h *handler) batchBurn(w http.ResponseWriter, r *http.Request) {
	operator, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	var req batchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	holders, ok := parseAddresses(w, req.Accounts)
	if !ok {
		return
	}
	if err := h.supplySvc.BatchBurn(
		r.Context(), operator, r.PathValue("name"), holders, req.Amounts,
	); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"burned_accounts": len(holders)})
}

func toAssetResponse(info application.AssetInfo) assetResponse {
	return assetResponse{
		Id:            info.Id,
		Name:          info.Name,
		TokenAddress:  info.TokenAddress.String(),
		CustodyWallet: info.CustodyWallet.String(),
		CreatedAt:     info.CreatedAt,
	}
}

func operatorFromRequest(w http.ResponseWriter, r *http.Request) (domain.Address, bool) {
	raw := r.Header.Get(operatorHeader)
	if len(raw) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorEnvelope{
			Code:    "MISSING_OPERATOR",
			Message: "missing " + operatorHeader + " header",
		}})
		return "", false
	}
	operator, err := domain.ParseAddress(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorEnvelope{
			Code:    "INVALID_OPERATOR",
			Message: err.Error(),
		}})
		return "", false
	}
	return operator, true
}

func parseAddress(w http.ResponseWriter, raw, field string) (domain.Address, bool) {
	addr, err := domain.ParseAddress(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorEnvelope{
			Code:     "INVALID_ADDRESS",
			Message:  err.Error(),
			Metadata: map[string]string{"field": field},
		}})
		return "", false
	}
	return addr, true
}

func parseAddresses(w http.ResponseWriter, raw []string) ([]domain.Address, bool) {
	addrs := make([]domain.Address, 0, len(raw))
	for _, s := range raw {
		addr, err := domain.ParseAddress(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorEnvelope{
				Code:    "INVALID_ADDRESS",
				Message: err.Error(),
			}})
			return nil, false
		}
		addrs = append(addrs, addr)
	}
	return addrs, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorEnvelope{
			Code:    "INVALID_BODY",
			Message: err.Error(),
		}})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// nolint:errcheck
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	var coded errors.Error
	if stderrors.As(err, &coded) {
		coded.Log().Warn(err.Error())
		writeJSON(w, coded.HTTPStatus(), errorResponse{Error: errorEnvelope{
			Code:     coded.CodeName(),
			Message:  err.Error(),
			Metadata: coded.Metadata(),
		}})
		return
	}

	log.WithError(err).Error("unexpected error")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorEnvelope{
		Code:    "INTERNAL_ERROR",
		Message: err.Error(),
	}})
}

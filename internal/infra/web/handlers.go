package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/infra/logging"
	"hostbill-payments/internal/schema"
)

// actionEnvelope peels the action discriminator off a request body before
// the action-specific decode.
type actionEnvelope struct {
	Action string `json:"action"`
}

const maxBodyBytes = 64 << 10

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body")
		return nil, false
	}
	return body, true
}

func decodeInto(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(v)
}

// handleIndianPayment is the multi-provider entry point: initiate, verify
// and check_status dispatch on the action field.
func (s *Server) handleIndianPayment(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid credentials")
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	var env actionEnvelope
	if err := decodeInto(body, &env); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch env.Action {
	case "initiate":
		s.initiate(w, r, principal, body, generalProviders)
	case "verify":
		s.verify(w, r, principal, body)
	case "check_status":
		s.checkStatus(w, r, principal, body)
	default:
		writeError(w, http.StatusBadRequest, "action must be initiate, verify or check_status")
	}
}

// handlePayUPayment is the card-gateway-specific endpoint; the provider is
// implicit and verify speaks raw PayU callback field names.
func (s *Server) handlePayUPayment(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid credentials")
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	var env actionEnvelope
	if err := decodeInto(body, &env); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch env.Action {
	case "initiate":
		var req schema.InitiateRequest
		if err := decodeInto(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		req.Provider = string(model.ProviderPayU)
		s.runInitiate(w, r, principal, &req, payuOnly)
	case "verify":
		var req schema.VerifyRequest
		if err := decodeInto(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		// The raw gateway callback correlates through udf1.
		if req.OrderID == "" {
			req.OrderID = req.UDF1
		}
		s.runVerify(w, r, principal, &req)
	default:
		writeError(w, http.StatusBadRequest, "action must be initiate or verify")
	}
}

func (s *Server) handleCreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid credentials")
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	var req struct {
		UserID   string `json:"userId"`
		PlanName string `json:"planName"`
	}
	if err := decodeInto(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := s.checkoutUC.CreateSession(r.Context(), principal, req.UserID, req.PlanName)
	if err != nil {
		s.logFailure(r, "create checkout session", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": session.SessionID,
		"url":       session.URL,
		"mock":      session.Mock,
	})
}

func (s *Server) initiate(w http.ResponseWriter, r *http.Request, principal *model.Principal, body []byte, allowed []model.Provider) {
	var req schema.InitiateRequest
	if err := decodeInto(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.runInitiate(w, r, principal, &req, allowed)
}

func (s *Server) runInitiate(w http.ResponseWriter, r *http.Request, principal *model.Principal, req *schema.InitiateRequest, allowed []model.Provider) {
	// A body userId may only ever confirm the credential, never replace it.
	if req.UserID != "" && req.UserID != principal.UserID {
		writeError(w, http.StatusForbidden, "you do not have access to this resource")
		return
	}

	intent, errs := schema.ValidateInitiate(req, allowed)
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	order, result, err := s.payUC.Initiate(r.Context(), principal, intent)
	if err != nil {
		s.logFailure(r, "initiate payment", err)
		writeDomainError(w, err)
		return
	}

	resp := map[string]any{
		"success":  true,
		"provider": string(result.Provider),
		"orderId":  order.ID,
		"txnId":    order.TxnRef,
	}
	switch result.Provider {
	case model.ProviderPayU:
		resp["paymentUrl"] = result.PaymentURL
		resp["params"] = result.SignedParams
	case model.ProviderUPI, model.ProviderGPay:
		resp["upiUrl"] = result.UPIURI
		resp["qrData"] = result.QRPayload
		if result.GPayDeepLink != "" {
			resp["gpayDeepLink"] = result.GPayDeepLink
		}
	case model.ProviderCashfree:
		resp["paymentUrl"] = result.PaymentURL
		resp["providerOrderId"] = result.ProviderOrderID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request, principal *model.Principal, body []byte) {
	var req schema.VerifyRequest
	if err := decodeInto(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.runVerify(w, r, principal, &req)
}

func (s *Server) runVerify(w http.ResponseWriter, r *http.Request, principal *model.Principal, req *schema.VerifyRequest) {
	if req.UserID != "" && req.UserID != principal.UserID {
		writeError(w, http.StatusForbidden, "you do not have access to this resource")
		return
	}

	in, errs := schema.ValidateVerify(req)
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	res, err := s.payUC.Verify(r.Context(), principal, in)
	if err != nil {
		s.logFailure(r, "verify payment", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  res.Settled,
		"orderId":  res.Order.ID,
		"provider": string(res.Order.Provider),
		"status":   string(res.Order.Status),
		"paid":     res.Order.Status == model.OrderStatusPaid,
	})
}

func (s *Server) checkStatus(w http.ResponseWriter, r *http.Request, principal *model.Principal, body []byte) {
	var req schema.CheckStatusRequest
	if err := decodeInto(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID != "" && req.UserID != principal.UserID {
		writeError(w, http.StatusForbidden, "you do not have access to this resource")
		return
	}

	orderID, errs := schema.ValidateCheckStatus(&req)
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	order, err := s.payUC.CheckStatus(r.Context(), principal, orderID)
	if err != nil {
		s.logFailure(r, "check order status", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  string(order.Status),
		"paid":    order.Status == model.OrderStatusPaid,
		"orderId": order.ID,
	})
}

func (s *Server) logFailure(r *http.Request, op string, err error) {
	logging.With(r.Context(), s.log).Error().Err(err).Str("op", op).Msg("request failed")
}

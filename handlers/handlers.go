// Package handlers mounts the express checkout endpoints on the shop's router.
package handlers

import (
	"net/http"
	"net/url"

	"github.com/companieshouse/chs.go/log"
	"github.com/gorilla/mux"

	"github.com/adobaai/paypal-express/checkout"
)

// Shop gives access to the session and basket of the buyer making a request.
type Shop interface {
	Session(r *http.Request) checkout.Session
	Basket(r *http.Request) checkout.Basket
}

// Handler serves the express checkout endpoints.
type Handler struct {
	Flow *checkout.Flow
	Shop Shop
	// ShopURL is the base URL steps are appended to as "cl" parameter.
	ShopURL string
}

// Register defines the route mappings of the express checkout.
func Register(r *mux.Router, h *Handler) {
	r.HandleFunc("/healthcheck", healthCheck).Methods(http.MethodGet).Name("get-healthcheck")

	express := r.PathPrefix("/paypal/express").Subrouter()
	express.HandleFunc("", h.HandleStart).Methods(http.MethodPost).Name("start-express-checkout")
	express.HandleFunc("/return", h.HandleReturn).Methods(http.MethodGet).Name("return-express-checkout")
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// HandleStart creates the PayPal order and redirects the buyer to PayPal.
func (h *Handler) HandleStart(w http.ResponseWriter, req *http.Request) {
	session := h.Shop.Session(req)
	redirect, err := h.Flow.Start(req.Context(), h.Shop.Basket(req), session)
	if err != nil {
		session.Set(checkout.SessionMessage, h.Flow.StartMessage(req.Context(), err))
		http.Redirect(w, req, h.StepURL(checkout.StepBasket, false), http.StatusFound)
		return
	}

	log.InfoR(req, "redirecting to paypal", log.Data{"token": session.Get(checkout.SessionToken)})
	http.Redirect(w, req, redirect, http.StatusFound)
}

// HandleReturn reconciles the approved order and redirects the buyer to the next step.
func (h *Handler) HandleReturn(w http.ResponseWriter, req *http.Request) {
	session := h.Shop.Session(req)
	out := h.Flow.Return(req.Context(), h.Shop.Basket(req), session)
	if out.Message != "" {
		session.Set(checkout.SessionMessage, out.Message)
	}

	data := log.Data{"step": out.Step, "execute": out.Execute}
	if out.Err != nil {
		data["error"] = out.Err.Error()
	}
	log.InfoR(req, "paypal express return", data)
	http.Redirect(w, req, h.StepURL(out.Step, out.Execute), http.StatusFound)
}

// StepURL returns the shop URL of a checkout step.
func (h *Handler) StepURL(step string, execute bool) string {
	q := url.Values{"cl": {step}}
	if execute {
		q.Set("fnc", "execute")
	}
	return h.ShopURL + "?" + q.Encode()
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iudx/catalogue-service/internal/middleware"
	"github.com/iudx/catalogue-service/pkg/constants"
	"github.com/iudx/catalogue-service/pkg/metrics"
)

func newRouter(svc *catalogueSvc) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.MetricsMiddleware)

	api := router.PathPrefix(constants.BasePath).Subrouter()
	api.HandleFunc("/item", svc.createItem).Methods(http.MethodPost)
	api.HandleFunc("/item", svc.updateItem).Methods(http.MethodPut)
	api.HandleFunc("/item", svc.deleteItem).Methods(http.MethodDelete)
	api.HandleFunc("/item", svc.getItem).Methods(http.MethodGet)
	api.HandleFunc("/search", svc.searchItems).Methods(http.MethodGet)
	api.HandleFunc("/count", svc.countItems).Methods(http.MethodGet)
	api.HandleFunc("/relationship", svc.relationship).Methods(http.MethodGet)

	router.HandleFunc("/livez", svc.livez).Methods(http.MethodGet)
	router.HandleFunc("/readyz", svc.readyz).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	return router
}

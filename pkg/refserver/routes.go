package refserver

import "github.com/julienschmidt/httprouter"

func (s *Server) registerRoutes(router *httprouter.Router) {
	router.GET("/ServiceProviderConfig", s.serviceProviderConfigHandler())
	router.GET("/Schemas", s.schemasHandler())
	router.GET("/ResourceTypes", s.resourceTypesHandler())

	for endpoint := range s.stores {
		router.GET("/"+endpoint, s.listHandler(endpoint))
		router.POST("/"+endpoint, s.createHandler(endpoint))
		router.GET("/"+endpoint+"/:id", s.getHandler(endpoint))
		router.PUT("/"+endpoint+"/:id", s.replaceHandler(endpoint))
		router.PATCH("/"+endpoint+"/:id", s.patchHandler(endpoint))
		router.DELETE("/"+endpoint+"/:id", s.deleteHandler(endpoint))
	}
}

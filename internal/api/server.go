package api

import (
	"net/http"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/api/middleware"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/service"
)

type Server struct {
	extraction *service.ExtractionService
}

func NewServer(extraction *service.ExtractionService) *Server {
	return &Server{
		extraction: extraction,
	}
}

func (s *Server) Routes(signingKey []byte) http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)

	// extraction routes
	mux.HandleFunc("POST "+ExtractTokenRoute, s.handleExtract)
	mux.HandleFunc("GET "+LatestTokenRoute, s.handleLatestToken)
	mux.HandleFunc("GET "+StatusRoute, s.handleStatus)

	// admin routes
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("POST "+ForceStopRoute, s.handleForceStop)
	adminMux.HandleFunc("GET "+ListExtractionsRoute, s.handleListExtractions)
	mux.Handle(AdminParent, middleware.OperatorAuth(signingKey)(adminMux))

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RecoverMiddleware(handler)
	handler = middleware.CorrelationIDMiddleware(handler)
	return handler
}

package api

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/v1/about"

	ExtractTokenRoute = "/v1/token/extract"
	LatestTokenRoute  = "/v1/token/{user}"
	StatusRoute       = "/v1/status"

	AdminParent          = "/v1/admin/"
	ForceStopRoute       = AdminParent + "force-stop"
	ListExtractionsRoute = AdminParent + "extractions"
)

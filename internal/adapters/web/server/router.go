package server

// Route paths exposed by the control/status server, named here so the
// table in server.go's routes() method and any client documentation
// stay in sync with a single source of truth.
const (
	RouteStatus       = "/api/status"
	RouteWebSocket    = "/ws"
	RouteReportPDF    = "/api/report.pdf"
	RouteConfigPatch  = "/api/config"
	RouteMetrics      = "/metrics"
)

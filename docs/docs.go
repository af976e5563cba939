// Package docs SajhaSahayog Relief API.
//
// Documentation of the SajhaSahayog disaster-response API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//     - multipart/form-data
//
//     Produces:
//     - application/json
//
//     Security:
//     - basic
//     - bearer
//
//    SecurityDefinitions:
//    basic:
//      type: basic
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/sajhasahayog/relief-api/api/handlers"
	"github.com/sajhasahayog/relief-api/dashboard"
	"github.com/sajhasahayog/relief-api/dispatch"
	"github.com/sajhasahayog/relief-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body struct {
		Alive bool `json:"alive"`
	}
}

// swagger:route POST /api/v1/auth/signup auth signup
// Creates a user. Admin signups need the admin code when one is configured.
// responses:
//   201: signupResponse
//   409: errorResponse

// swagger:parameters signup
type signupParamsWrapper struct {
	// in:body
	Body handlers.SignupRequest
}

// The new user's id, email and role
// swagger:response signupResponse
type signupResponseWrapper struct {
	// in:body
	Body map[string]string
}

// swagger:route POST /api/v1/reports/damage reports damageReport
// Submits a damage or hazard report with an optional image.
// responses:
//   201: reportResponse
//   400: errorResponse
//   502: errorResponse

// swagger:route POST /api/v1/reports/missing reports missingPersonReport
// Submits a missing person report with an optional image.
// responses:
//   201: reportResponse
//   400: errorResponse
//   502: errorResponse

// A report in its kind-independent form
// swagger:response reportResponse
type reportResponseWrapper struct {
	// in:body
	Body models.Report
}

// swagger:route POST /api/v1/admin/reports/{kind}/{id}/dispatch admin dispatchReport
// Assigns a response team to a pending report.
// responses:
//   200: reportResponse
//   404: errorResponse
//   409: errorResponse

// swagger:parameters dispatchReport
type dispatchParamsWrapper struct {
	// missing or damage
	// in:path
	Kind string `json:"kind"`
	// in:path
	ID string `json:"id"`
	// in:body
	Body dispatch.DispatchInput
}

// swagger:route GET /api/v1/admin/dashboard admin dashboard
// Returns every report, rehab case and aid log with the derived counters.
// responses:
//   200: dashboardResponse

// The admin dashboard snapshot
// swagger:response dashboardResponse
type dashboardResponseWrapper struct {
	// in:body
	Body dashboard.Snapshot
}

// swagger:route GET /api/v1/admin/rehab-cases admin rehabCases
// Lists rehab cases newest first with their damage report titles.
// responses:
//   200: rehabCasesResponse

// Rehab cases with status counts
// swagger:response rehabCasesResponse
type rehabCasesResponseWrapper struct {
	// in:body
	Body handlers.RehabListResponse
}

// swagger:route GET /api/v1/admin/aid-logs admin aidLogs
// Lists aid deliveries newest first with totals per item and unit.
// responses:
//   200: aidLogsResponse

// Aid deliveries with totals
// swagger:response aidLogsResponse
type aidLogsResponseWrapper struct {
	// in:body
	Body handlers.AidListResponse
}

// An error message with the underlying error
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorMessageResponse
}

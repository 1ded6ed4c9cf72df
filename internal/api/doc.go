// Package api provides the HTTP client for the remote profile records API.
//
// The API owns all persistence and business logic; this package only maps
// requests and responses. It exposes the seven operations the client needs
// (list, search, get-one, create, update, delete, upload-photo), applies a
// fixed time budget per call (3s reads, 5s writes, 30s photo upload), and
// normalizes every failure into a typed *ClientError so views can render a
// status line without inspecting transport details.
//
// No call is retried. The API is a low-volume administrative service and
// every failure is shown to the operator, who can retry manually.
//
// # Usage
//
//	client := api.NewClient("http://192.168.1.20:5000")
//
//	records, err := client.ListRecords(ctx)
//	if err != nil {
//	    status = api.ShortMessage(err)
//	}
package api

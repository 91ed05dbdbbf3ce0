package probe

import (
	"fmt"
	"net/http"

	"github.com/thomaselliottbetz/scim-sanity/pkg/factory"
	"github.com/thomaselliottbetz/scim-sanity/pkg/transport"
)

// testAgentRapidLifecycle creates and immediately deletes count agents to
// exercise ephemeral provisioning: AI agents are routinely created and torn
// down at machine speed, unlike the human joiner-mover-leaver lifecycles
// that SCIM's CRUD model was originally shaped around. Agents that fail to
// delete are tracked in created for cleanup.
func testAgentRapidLifecycle(client *transport.Transport, created *[]CreatedResource, count int) []Result {
	successes, failures := 0, 0

	for i := 0; i < count; i++ {
		payload := factory.MakeAgent()
		resp, err := client.Post("/Agents", payload)
		if err != nil || resp.Status != http.StatusCreated {
			failures++
			continue
		}

		body, jerr := resp.JSON()
		id, ok := idOf(body)
		if jerr != nil || !ok {
			failures++
			continue
		}

		delResp, delErr := client.Delete("/Agents/" + id)
		if delErr == nil && delResp.Status == http.StatusNoContent {
			successes++
		} else {
			failures++
			*created = append(*created, CreatedResource{Endpoint: "/Agents", ID: id})
		}
	}

	name := fmt.Sprintf("Rapid create/delete %d agents", count)
	if failures == 0 {
		return []Result{{
			Name:    name,
			Status:  StatusPass,
			Message: fmt.Sprintf("%d/%d succeeded", successes, count),
			Phase:   phaseAgentRapidLifecycle,
		}}
	}
	return []Result{{
		Name:    name,
		Status:  StatusFail,
		Message: fmt.Sprintf("%d/%d succeeded, %d failed", successes, count, failures),
		Phase:   phaseAgentRapidLifecycle,
	}}
}
